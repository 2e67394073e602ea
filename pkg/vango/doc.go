// Package vango provides the hook runtime for vango-lite.
//
// A Session is the render driver. It owns the hook store, remembers the last
// render request and runs render passes: each pass clears the mount target,
// invokes component functions through the mount engine and validates hook
// order. State setters and lazy-load completions schedule further passes on
// the same session.
//
// # Components
//
// Hook-aware components receive the render context explicitly:
//
//	var Counter = vango.Func("Counter", func(c *vango.Ctx, props vdom.Props) any {
//	    count, setCount := vango.UseState(c, 0)
//	    return vdom.CreateElement("button", vdom.Props{
//	        "id":      "inc",
//	        "onclick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//	    }, vdom.Textf("Count: %d", count))
//	})
//
// # Hooks
//
// UseState, UseEffect and UseRef store their state in the session's hook
// store under the render identity, matched by call position. Hooks must be
// called in the same order on every render; a changed order is reported as a
// HookOrderViolation instead of silently corrupting state.
//
// # Rendering
//
//	doc := memtree.New()
//	root, _ := doc.Container("div")
//	s := vango.NewSession(doc, vango.WithLogger(logger))
//	defer s.Close()
//	err := s.Render(vdom.CreateElement(Counter, nil), root, vango.RootIdentity)
//
// # Memoization and Lazy Loading
//
// Memo wraps a component with a bounded cache keyed by its serialized props.
// Lazy loads a component on a goroutine, renders a placeholder meanwhile and
// re-renders every waiting session when the load completes. Suspense renders
// a fallback while any lazy component in its subtree is loading and
// subscribes its session to those loads.
//
// # Thread Safety
//
// Render passes of one session never overlap. A setter called while a pass
// is running, on any goroutine, queues one more pass instead of re-entering.
package vango
