package memtree

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// voidElements are elements that have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttrs render as a bare attribute when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"multiple": true,
	"open":     true,
	"readonly": true,
	"required": true,
	"selected": true,
}

// propertyAttrs maps DOM property names to their HTML attribute names.
var propertyAttrs = map[string]string{
	"className": "class",
	"htmlFor":   "for",
	"tabIndex":  "tabindex",
}

// HTML serializes the node and its descendants.
func (n *Node) HTML() string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes only the children of the node.
func (n *Node) InnerHTML() string {
	n.doc.mu.RLock()
	defer n.doc.mu.RUnlock()
	var b strings.Builder
	for _, c := range n.children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.typ == TextNode {
		b.WriteString(escapeHTML(n.text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	n.writeAttributes(b)
	b.WriteByte('>')

	if voidElements[n.tag] {
		return
	}
	for _, c := range n.children {
		c.writeHTML(b)
	}
	fmt.Fprintf(b, "</%s>", n.tag)
}

// writeAttributes renders properties in sorted order. Event handlers render
// as data-on-<event> markers so a client can bind them.
func (n *Node) writeAttributes(b *strings.Builder) {
	keys := make([]string, 0, len(n.props))
	for key := range n.props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var events []string
	for _, key := range keys {
		value := n.props[key]
		if value == nil || strings.HasPrefix(key, "_") {
			continue
		}
		if strings.HasPrefix(key, "on") && isEventHandler(value) {
			events = append(events, strings.ToLower(key[2:]))
			continue
		}

		name := key
		if mapped, ok := propertyAttrs[key]; ok {
			name = mapped
		}

		if bv, ok := value.(bool); ok && booleanAttrs[strings.ToLower(name)] {
			if bv {
				b.WriteByte(' ')
				b.WriteString(name)
			}
			continue
		}

		fmt.Fprintf(b, ` %s="%s"`, name, escapeAttr(attrToString(value)))
	}

	for _, ev := range events {
		fmt.Fprintf(b, ` data-on-%s="true"`, ev)
	}
}

// isEventHandler returns true if the value is a function.
func isEventHandler(value any) bool {
	return reflect.ValueOf(value).Kind() == reflect.Func
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
