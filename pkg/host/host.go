// Package host defines the capability set the mount engine needs from a host
// platform tree: create nodes by tag name, set properties by name, append
// children and clear children. Any tree satisfying Document and Node can be
// rendered into; memtree is the in-memory implementation.
package host

// Document creates host nodes.
type Document interface {
	// CreateElement creates an element node for tag. Implementations reject
	// tag names they cannot represent.
	CreateElement(tag string) (Node, error)

	// CreateText creates a text node.
	CreateText(text string) (Node, error)
}

// Node is a host tree node.
type Node interface {
	// SetProperty assigns a property by name (direct property assignment,
	// not attribute-namespaced).
	SetProperty(name string, value any) error

	// AppendChild appends child as the last child of this node.
	AppendChild(child Node) error

	// Clear removes all children of this node.
	Clear() error
}
