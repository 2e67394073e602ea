// Package vdom provides the virtual node model for vango-lite.
//
// A VNode is plain data describing a UI element before it is materialized
// into a host tree: an identity (a host tag name or a Component), a set of
// properties and children. VNodes carry no behavior and are never mutated
// after construction; every render pass builds a fresh tree.
//
// # Creating Nodes
//
//	CreateElement("div", Props{"className": "card"},
//	    CreateElement("h1", nil, "Title"),
//	    CreateElement(Counter, Props{"start": 3}),
//	)
//
// CreateElement keeps a single child argument unwrapped in Children; zero or
// several children are kept as a []any. ChildList normalizes both shapes.
//
// # Components
//
// Component is the identity of a component function. Static components
// (StaticFunc) need no render session and can be mounted directly. Hook-aware
// components live in package vango and are invoked by its render session.
//
// # Loading Detection
//
// Components that load asynchronously implement LoadingReporter. AnyLoading
// walks a subtree and reports whether any component identity in it is still
// loading.
package vdom
