package vdom

import (
	"fmt"
	"reflect"
)

// ChildrenProp is the property name under which component props receive
// their children.
const ChildrenProp = "children"

// VNode is the virtual node.
type VNode struct {
	// Type is a host tag name (string) or a Component. It is not validated
	// here; a bad identity fails when the node is mounted.
	Type any

	// Props holds properties copied onto the host element, or passed to the
	// component.
	Props Props

	// Children is a single child value or a []any, exactly as given to
	// CreateElement.
	Children any
}

// Props holds node properties.
type Props map[string]any

// Get returns the property value for key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the property as a string, or "" if absent or not a string.
func (p Props) String(key string) string {
	s, _ := p.Get(key).(string)
	return s
}

// Int returns the property as an int, or def if absent or not an integer.
func (p Props) Int(key string, def int) int {
	v := reflect.ValueOf(p.Get(key))
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint())
	default:
		return def
	}
}

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Tag returns the host tag name and true if the node is a host element.
func (v *VNode) Tag() (string, bool) {
	if v == nil {
		return "", false
	}
	tag, ok := v.Type.(string)
	return tag, ok
}

// Component returns the component identity and true if the node is a
// component node.
func (v *VNode) Component() (Component, bool) {
	if v == nil {
		return nil, false
	}
	c, ok := v.Type.(Component)
	return c, ok
}

// ComponentProps returns the props handed to a component: a copy of Props
// with Children stored under ChildrenProp.
func (v *VNode) ComponentProps() Props {
	props := v.Props.Clone()
	if v.Children != nil {
		props[ChildrenProp] = v.Children
	}
	return props
}

// TypeName returns a readable name for the node identity.
func (v *VNode) TypeName() string {
	if v == nil {
		return "<nil>"
	}
	switch t := v.Type.(type) {
	case string:
		return t
	case Component:
		return t.ComponentName()
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Component is the identity of a component function. Implementations must
// be comparable (usually pointers) so the same component is recognized
// across renders.
type Component interface {
	ComponentName() string
}

// StaticComponent is a component that uses no hooks. It can be rendered
// without a render session.
type StaticComponent interface {
	Component
	RenderStatic(props Props) any
}

// LoadingReporter is implemented by components that may still be loading.
type LoadingReporter interface {
	Loading() bool
}

// StaticFunc wraps a hook-free render function.
type StaticFunc struct {
	name   string
	render func(props Props) any
}

// Static creates a static component from a render function.
func Static(name string, render func(props Props) any) *StaticFunc {
	return &StaticFunc{name: name, render: render}
}

// ComponentName implements Component.
func (f *StaticFunc) ComponentName() string {
	return f.name
}

// RenderStatic implements StaticComponent.
func (f *StaticFunc) RenderStatic(props Props) any {
	return f.render(props)
}
