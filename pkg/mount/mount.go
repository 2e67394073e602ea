// Package mount materializes virtual node trees into a host tree.
//
// Mount appends a freshly constructed host subtree to a parent node; it never
// clears the parent. Component nodes are resolved through an Invoker, which a
// render session provides; with a nil Invoker only static (hook-free)
// components can be mounted.
package mount

import (
	"fmt"
	"sort"

	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/host"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Invoker renders a component with props and returns its output.
type Invoker interface {
	Invoke(comp vdom.Component, props vdom.Props) (any, error)
}

// Mount materializes node and appends the result to parent.
//
// node may be a *vdom.VNode, a primitive (text leaf), a []any or []*vdom.VNode
// (mounted in order), or nil (nothing is mounted).
func Mount(doc host.Document, node any, parent host.Node, inv Invoker) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *vdom.VNode:
		if n == nil {
			return nil
		}
		return mountNode(doc, n, parent, inv)
	case []any, []*vdom.VNode:
		for _, child := range vdom.ChildList(n) {
			if err := Mount(doc, child, parent, inv); err != nil {
				return err
			}
		}
		return nil
	}

	text, ok := vdom.TextContent(node)
	if !ok {
		return errors.New("E031").WithDetailf("cannot mount value of type %T", node)
	}
	el, err := doc.CreateText(text)
	if err != nil {
		return errors.New("E030").WithDetail("create text node").Wrap(err)
	}
	if err := parent.AppendChild(el); err != nil {
		return errors.New("E030").WithDetail("append text node").Wrap(err)
	}
	return nil
}

func mountNode(doc host.Document, n *vdom.VNode, parent host.Node, inv Invoker) error {
	switch t := n.Type.(type) {
	case string:
		return mountElement(doc, t, n, parent, inv)
	case vdom.Component:
		out, err := invoke(inv, t, n.ComponentProps())
		if err != nil {
			return err
		}
		return Mount(doc, out, parent, inv)
	default:
		return errors.New("E030").WithDetailf("invalid element type %T", n.Type)
	}
}

func mountElement(doc host.Document, tag string, n *vdom.VNode, parent host.Node, inv Invoker) error {
	el, err := doc.CreateElement(tag)
	if err != nil {
		return errors.New("E030").WithDetailf("create <%s>", tag).Wrap(err)
	}

	// Sorted so host trees that record assignment order stay deterministic.
	keys := make([]string, 0, len(n.Props))
	for key := range n.Props {
		if key != vdom.ChildrenProp {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := el.SetProperty(key, n.Props[key]); err != nil {
			return errors.New("E030").WithDetailf("set %s on <%s>", key, tag).Wrap(err)
		}
	}

	children := n.Children
	if children == nil {
		children = n.Props.Get(vdom.ChildrenProp)
	}
	for _, child := range vdom.ChildList(children) {
		if err := Mount(doc, child, el, inv); err != nil {
			return err
		}
	}

	if err := parent.AppendChild(el); err != nil {
		return errors.New("E030").WithDetailf("append <%s>", tag).Wrap(err)
	}
	return nil
}

func invoke(inv Invoker, comp vdom.Component, props vdom.Props) (any, error) {
	if inv != nil {
		return inv.Invoke(comp, props)
	}
	if s, ok := comp.(vdom.StaticComponent); ok {
		return s.RenderStatic(props), nil
	}
	return nil, errors.New("E032").WithDetail(fmt.Sprintf("component %s", comp.ComponentName()))
}
