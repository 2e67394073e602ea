package vango

import "sync"

// Ref holds a mutable value that persists across renders. Writing to a Ref
// never schedules a render.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// UseRef returns the Ref at this hook position. The same pointer is returned
// on every render of the identity; initial is only used on first render.
//
// This is a hook and MUST be called unconditionally during render.
func UseRef[T any](c *Ctx, initial T) *Ref[T] {
	v := c.slot(HookRef, func() any { return &Ref[T]{value: initial} })
	r, ok := v.(*Ref[T])
	if !ok {
		panic(mismatch(HookRef, c, r, v))
	}
	return r
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}

// Update applies fn to the current value under the ref's lock. fn must not
// call methods of r.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = fn(r.value)
}
