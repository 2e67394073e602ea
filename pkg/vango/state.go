package vango

type stateCell struct {
	value any
	// version counts writes so Update can detect a concurrent write.
	version uint64
}

// Setter updates a state cell and schedules a re-render of its session.
type Setter[T any] struct {
	s    *Session
	cell *stateCell
}

// UseState returns the current value of the state cell at this hook
// position, creating it with initial on first use, and its setter.
//
// This is a hook and MUST be called unconditionally during render.
func UseState[T any](c *Ctx, initial T) (T, Setter[T]) {
	cell := c.slot(HookState, func() any { return &stateCell{value: initial} }).(*stateCell)

	var raw any
	c.s.withLock(func() { raw = cell.value })

	value, ok := as[T](raw)
	if !ok {
		panic(mismatch(HookState, c, initial, raw))
	}
	return value, Setter[T]{s: c.s, cell: cell}
}

// Set replaces the state value and re-renders. There is no equality check:
// setting the current value still re-renders.
func (st Setter[T]) Set(value T) {
	st.s.withLock(func() {
		st.cell.value = value
		st.cell.version++
	})
	st.s.requestRender()
}

// Update replaces the state value with fn(previous) and re-renders. fn runs
// without the session lock, so it may read or set other state of the same
// session. If another write lands while fn runs, fn is called again with the
// newer value.
func (st Setter[T]) Update(fn func(prev T) T) {
	for {
		var (
			raw     any
			version uint64
		)
		st.s.withLock(func() { raw, version = st.cell.value, st.cell.version })
		prev, _ := as[T](raw)
		next := fn(prev)

		written := false
		st.s.withLock(func() {
			if st.cell.version == version {
				st.cell.value = next
				st.cell.version++
				written = true
			}
		})
		if written {
			break
		}
	}
	st.s.requestRender()
}

// Get returns the latest value, including writes made after the render that
// produced this setter.
func (st Setter[T]) Get() T {
	var raw any
	st.s.withLock(func() { raw = st.cell.value })
	v, _ := as[T](raw)
	return v
}

// as converts a stored value to T. A nil value yields the zero T.
func as[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, true
	}
	t, ok := v.(T)
	return t, ok
}
