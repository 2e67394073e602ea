package memtree

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/vango-dev/vango-lite/pkg/host"
)

// NodeType discriminates element and text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

var tagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// Document is an in-memory host document.
type Document struct {
	mu sync.RWMutex
}

// New creates an empty Document.
func New() *Document {
	return &Document{}
}

// Container creates a detached element to be used as a mount target.
func (d *Document) Container(tag string) (*Node, error) {
	n, err := d.createElement(tag)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CreateElement implements host.Document.
func (d *Document) CreateElement(tag string) (host.Node, error) {
	n, err := d.createElement(tag)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (d *Document) createElement(tag string) (*Node, error) {
	if !tagPattern.MatchString(tag) {
		return nil, fmt.Errorf("memtree: invalid tag name %q", tag)
	}
	return &Node{
		doc:   d,
		typ:   ElementNode,
		tag:   strings.ToLower(tag),
		props: make(map[string]any),
	}, nil
}

// CreateText implements host.Document.
func (d *Document) CreateText(text string) (host.Node, error) {
	return &Node{doc: d, typ: TextNode, text: text}, nil
}

// Node is an element or text node.
type Node struct {
	doc      *Document
	typ      NodeType
	tag      string
	text     string
	props    map[string]any
	children []*Node
	parent   *Node
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lower-cased tag name of an element, or "" for text.
func (n *Node) Tag() string { return n.tag }

// SetProperty implements host.Node.
func (n *Node) SetProperty(name string, value any) error {
	if n.typ != ElementNode {
		return fmt.Errorf("memtree: cannot set property %q on a text node", name)
	}
	if name == "" {
		return fmt.Errorf("memtree: empty property name on <%s>", n.tag)
	}
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.props[name] = value
	return nil
}

// AppendChild implements host.Node.
func (n *Node) AppendChild(child host.Node) error {
	c, ok := child.(*Node)
	if !ok {
		return fmt.Errorf("memtree: cannot append foreign node %T", child)
	}
	if c.doc != n.doc {
		return fmt.Errorf("memtree: node belongs to another document")
	}
	if n.typ != ElementNode {
		return fmt.Errorf("memtree: text nodes cannot have children")
	}

	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for p := n; p != nil; p = p.parent {
		if p == c {
			return fmt.Errorf("memtree: appending <%s> would create a cycle", c.tag)
		}
	}
	if c.parent != nil {
		c.parent.removeChildLocked(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return nil
}

// Clear implements host.Node.
func (n *Node) Clear() error {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	return nil
}

func (n *Node) removeChildLocked(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Property returns a property value and whether it is set.
func (n *Node) Property(name string) (any, bool) {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	v, ok := n.props[name]
	return v, ok
}

// Children returns a snapshot of the child nodes.
func (n *Node) Children() []*Node {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

// Parent returns the parent node, or nil if detached.
func (n *Node) Parent() *Node {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	return n.parent
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.typ == TextNode {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.writeText(b)
	}
}

// Find returns the first descendant element (depth first, including n)
// whose "id" property equals id, or nil.
func (n *Node) Find(id string) *Node {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	return n.findLocked(id)
}

func (n *Node) findLocked(id string) *Node {
	if n.typ == ElementNode {
		if v, ok := n.props["id"].(string); ok && v == id {
			return n
		}
	}
	for _, c := range n.children {
		if found := c.findLocked(id); found != nil {
			return found
		}
	}
	return nil
}

// Dispatch calls the handler stored in the "on<event>" property. Supported
// handler shapes are func(), func() error and func(any) (receiving the node).
func (n *Node) Dispatch(event string) error {
	if n == nil {
		return fmt.Errorf("memtree: dispatch %q on nil node", event)
	}
	handler, ok := n.Property("on" + strings.ToLower(event))
	if !ok || handler == nil {
		return fmt.Errorf("memtree: <%s> has no %s handler", n.tag, event)
	}

	switch h := handler.(type) {
	case func():
		h()
		return nil
	case func() error:
		return h()
	case func(any):
		h(n)
		return nil
	default:
		return fmt.Errorf("memtree: unsupported %s handler type %T", event, handler)
	}
}
