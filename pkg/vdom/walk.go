package vdom

// AnyLoading reports whether any component identity in the subtree rooted at
// v implements LoadingReporter and is loading. The walk follows children of
// host elements and component nodes; it cannot see output that components
// have not rendered yet.
func AnyLoading(v any) bool {
	return walkLoading(v, func(LoadingReporter) bool { return false })
}

// LoadingComponents returns every loading component identity in the subtree
// rooted at v, in tree order. It walks the same nodes as AnyLoading.
func LoadingComponents(v any) []LoadingReporter {
	var found []LoadingReporter
	walkLoading(v, func(r LoadingReporter) bool {
		found = append(found, r)
		return true
	})
	return found
}

// walkLoading calls visit for each loading component. It returns true as
// soon as visit returns false.
func walkLoading(v any, visit func(LoadingReporter) bool) bool {
	switch n := v.(type) {
	case []any:
		for _, c := range n {
			if walkLoading(c, visit) {
				return true
			}
		}
	case []*VNode:
		for _, c := range n {
			if walkLoading(c, visit) {
				return true
			}
		}
	case *VNode:
		if n == nil {
			return false
		}
		if r, ok := n.Type.(LoadingReporter); ok && r.Loading() && !visit(r) {
			return true
		}
		if n.Children == nil {
			return walkLoading(n.Props[ChildrenProp], visit)
		}
		return walkLoading(n.Children, visit)
	}
	return false
}
