package vango

import (
	"context"

	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Ctx is the render context of one pass: the session, the identity whose
// hooks are being resolved and the next hook index. It is only valid while
// the pass that created it is running.
type Ctx struct {
	s        *Session
	identity Identity
	list     *hookList
	index    int
	done     bool
}

// Identity returns the render identity of the pass.
func (c *Ctx) Identity() Identity {
	return c.identity
}

// Session returns the session running the pass.
func (c *Ctx) Session() *Session {
	return c.s
}

// Context returns the session context. It is cancelled when the session is
// closed; use it for work started from effects.
func (c *Ctx) Context() context.Context {
	return c.s.ctx
}

// HookComponent is a component that renders with access to hooks.
type HookComponent interface {
	vdom.Component
	Render(c *Ctx, props vdom.Props) any
}

// RenderFunc is the signature of hook-aware component functions.
type RenderFunc func(c *Ctx, props vdom.Props) any

// FuncComponent wraps a render function.
type FuncComponent struct {
	name   string
	render RenderFunc
}

// Func creates a hook-aware component from a render function.
func Func(name string, render RenderFunc) *FuncComponent {
	return &FuncComponent{name: name, render: render}
}

// ComponentName implements vdom.Component.
func (f *FuncComponent) ComponentName() string {
	return f.name
}

// Render implements HookComponent.
func (f *FuncComponent) Render(c *Ctx, props vdom.Props) any {
	return f.render(c, props)
}

// Invoke implements mount.Invoker.
func (c *Ctx) Invoke(comp vdom.Component, props vdom.Props) (any, error) {
	switch t := comp.(type) {
	case HookComponent:
		return t.Render(c, props), nil
	case vdom.StaticComponent:
		return t.RenderStatic(props), nil
	default:
		return nil, errors.New("E032").WithDetailf("component %s (%T) has no render method", comp.ComponentName(), comp)
	}
}

// slot resolves the hook at the next index, creating it with create on
// first use. Hook order violations panic with a *errors.VangoError that the
// session turns into the pass error.
func (c *Ctx) slot(kind HookKind, create func() any) any {
	if c == nil || c.done {
		panic(errors.New("E001").WithDetailf("%s hook", kind))
	}

	idx := c.index
	c.index++

	if v := c.list.slotViolation(c.identity, idx, kind); v != nil {
		c.s.observeViolation(c.identity)
		if c.s.cfg.strictHookOrder {
			panic(v)
		}
		c.s.logger.Warn("hook order changed, resetting slot",
			"identity", string(c.identity), "index", idx, "error", v.Error())
		rec := &hookRecord{kind: kind, value: create()}
		if idx < len(c.list.records) {
			if old, ok := c.list.records[idx].value.(*effectCell); ok && old.cleanup != nil {
				old.cleanup()
			}
			c.list.records[idx] = rec
		} else {
			c.list.records = append(c.list.records, rec)
		}
		return rec.value
	}

	if idx < len(c.list.records) {
		return c.list.records[idx].value
	}
	rec := &hookRecord{kind: kind, value: create()}
	c.list.records = append(c.list.records, rec)
	return rec.value
}

// hasSlots reports whether the n hooks following the current index already
// exist.
func (c *Ctx) hasSlots(n int) bool {
	return c.index+n <= len(c.list.records)
}

// skip advances the hook index past n existing slots.
func (c *Ctx) skip(n int) {
	c.index += n
}

// finish validates the hook count of the completed pass.
func (c *Ctx) finish() error {
	if v := c.list.countViolation(c.identity, c.index); v != nil {
		c.s.observeViolation(c.identity)
		if c.s.cfg.strictHookOrder {
			return v
		}
		c.s.logger.Warn("hook count changed",
			"identity", string(c.identity), "error", v.Error())
	}
	c.list.committed = true
	return nil
}

func mismatch(kind HookKind, c *Ctx, want any, got any) *errors.VangoError {
	return errors.New("E003").WithDetailf("identity %q: %s hook %d holds %T, want %T", c.identity, kind, c.index-1, got, want)
}
