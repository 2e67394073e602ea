package vango

import "reflect"

// Cleanup is returned by an effect and runs before the effect runs again.
type Cleanup func()

type effectCell struct {
	ran     bool
	deps    []any // nil: no dependency list was given
	cleanup Cleanup
}

// Deps builds a dependency list. Deps() with no values is an empty list: the
// effect runs once. Pass a nil list to UseEffect to run on every render.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// UseEffect runs fn when deps changed since the previous render of this hook
// position. The previous cleanup, if any, runs first. Effects run
// synchronously at the call site during the pass.
//
// deps changed when: this is the first render, deps is nil, the previous
// deps were nil, the lengths differ, or any element differs. Elements are
// compared with == for comparable values, by identity for slices and maps,
// and are always different for functions.
//
// This is a hook and MUST be called unconditionally during render.
func UseEffect(c *Ctx, fn func() Cleanup, deps []any) {
	cell := c.slot(HookEffect, func() any { return &effectCell{} }).(*effectCell)
	if !depsChanged(cell, deps) {
		return
	}

	if cell.cleanup != nil {
		cleanup := cell.cleanup
		cell.cleanup = nil
		cleanup()
	}

	cell.ran = true
	if deps == nil {
		cell.deps = nil
	} else {
		cell.deps = append(make([]any, 0, len(deps)), deps...)
	}
	cell.cleanup = fn()
}

func depsChanged(cell *effectCell, deps []any) bool {
	if !cell.ran || deps == nil || cell.deps == nil {
		return true
	}
	if len(deps) != len(cell.deps) {
		return true
	}
	for i := range deps {
		if !sameValue(deps[i], cell.deps[i]) {
			return true
		}
	}
	return false
}

// sameValue compares two dependency values.
func sameValue(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	}

	if ta.Comparable() {
		// Interface fields can still hold uncomparable values.
		defer func() {
			if recover() != nil {
				same = reflect.DeepEqual(a, b)
			}
		}()
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
