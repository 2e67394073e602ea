package vdom

// CreateElement creates a new VNode.
//
// identity is a host tag name or a Component. A single child is stored as
// is; zero or several children are stored as a []any in the given order.
func CreateElement(identity any, props Props, children ...any) *VNode {
	node := &VNode{
		Type:  identity,
		Props: props,
	}
	if node.Props == nil {
		node.Props = Props{}
	}

	if len(children) == 1 {
		node.Children = children[0]
	} else {
		node.Children = children
	}
	return node
}

// FromProps creates a VNode from component-style props, moving the
// ChildrenProp entry back into Children.
func FromProps(identity any, props Props) *VNode {
	rest := props.Clone()
	children := rest[ChildrenProp]
	delete(rest, ChildrenProp)
	return &VNode{
		Type:     identity,
		Props:    rest,
		Children: children,
	}
}

// El creates a host element without properties.
func El(tag string, children ...any) *VNode {
	return CreateElement(tag, nil, children...)
}

// ChildList normalizes a children value to a slice, dropping nil entries.
// Nested slices are kept as items; the mount engine flattens them.
func ChildList(children any) []any {
	switch v := children.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(v))
		for _, c := range v {
			if !isNil(c) {
				out = append(out, c)
			}
		}
		return out
	case []*VNode:
		out := make([]any, 0, len(v))
		for _, c := range v {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	default:
		if isNil(v) {
			return nil
		}
		return []any{v}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	n, ok := v.(*VNode)
	return ok && n == nil
}
