package vango

import "github.com/vango-dev/vango-lite/pkg/vdom"

// FallbackProp is the Suspense prop holding the node shown while loading.
const FallbackProp = "fallback"

// watcher is implemented by loading components that can re-render a session
// once they resolve.
type watcher interface {
	// watch registers s for a re-render and reports whether the component
	// is still loading.
	watch(s *Session) bool
}

// Suspense renders its fallback prop while any component in its children
// subtree reports loading, and its children otherwise. The rendering session
// is registered with every loading lazy component it finds, so it is
// re-rendered when they resolve even if another session started the load.
var Suspense = Func("Suspense", func(c *Ctx, props vdom.Props) any {
	children := props.Get(vdom.ChildrenProp)
	loading := false
	for _, r := range vdom.LoadingComponents(children) {
		w, ok := r.(watcher)
		if !ok || w.watch(c.s) {
			loading = true
		}
	}
	if loading {
		return props.Get(FallbackProp)
	}
	return children
})

// SuspenseBoundary creates a Suspense node.
func SuspenseBoundary(fallback any, children ...any) *vdom.VNode {
	return vdom.CreateElement(Suspense, vdom.Props{FallbackProp: fallback}, children...)
}
