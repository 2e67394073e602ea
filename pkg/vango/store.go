package vango

import (
	"github.com/vango-dev/vango-lite/internal/errors"
)

// Identity keys the hook state of one logical component instance across
// renders.
type Identity string

// RootIdentity is the default render identity.
const RootIdentity Identity = "root"

// HookKind identifies the type of hook call for order validation.
type HookKind uint8

const (
	HookState HookKind = iota + 1
	HookEffect
	HookRef
)

// String returns a human-readable name for the hook kind.
func (k HookKind) String() string {
	switch k {
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// hookRecord is one positional hook slot.
type hookRecord struct {
	kind  HookKind
	value any // *stateCell, *effectCell or *Ref[T]
}

// hookList holds the hook slots of one identity.
type hookList struct {
	records []*hookRecord

	// committed is set once a pass for this identity completed; from then
	// on the number of hooks is fixed.
	committed bool
}

// Store maps identities to their positional hook slots.
type Store struct {
	lists map[Identity]*hookList
	order []Identity
}

// NewStore creates an empty hook store.
func NewStore() *Store {
	return &Store{lists: make(map[Identity]*hookList)}
}

// list returns the hook list for id, creating it on first use.
func (s *Store) list(id Identity) *hookList {
	l, ok := s.lists[id]
	if !ok {
		l = &hookList{}
		s.lists[id] = l
		s.order = append(s.order, id)
	}
	return l
}

// Len returns the number of hook slots recorded for id.
func (s *Store) Len(id Identity) int {
	if l, ok := s.lists[id]; ok {
		return len(l.records)
	}
	return 0
}

// Kinds returns the recorded hook kinds for id in call order.
func (s *Store) Kinds(id Identity) []HookKind {
	l, ok := s.lists[id]
	if !ok {
		return nil
	}
	kinds := make([]HookKind, len(l.records))
	for i, r := range l.records {
		kinds[i] = r.kind
	}
	return kinds
}

// Identities returns the identities with hook state, in creation order.
func (s *Store) Identities() []Identity {
	return append([]Identity(nil), s.order...)
}

// Drop discards all hook state of id. Stored effect cleanups are not run.
func (s *Store) Drop(id Identity) {
	delete(s.lists, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// slotViolation describes a hook call that does not match the recorded
// order. It returns nil when the call is consistent.
func (l *hookList) slotViolation(id Identity, index int, kind HookKind) *errors.VangoError {
	if index < len(l.records) {
		if want := l.records[index].kind; want != kind {
			return errors.New("E002").
				WithDetailf("identity %q: hook %d was %s, now %s", id, index, want, kind).
				WithSuggestion("Call hooks unconditionally, in the same order, at the top of the component")
		}
		return nil
	}
	if l.committed {
		return errors.New("E002").
			WithDetailf("identity %q: extra %s hook at index %d, expected %d hooks", id, kind, index, len(l.records)).
			WithSuggestion("Do not call hooks inside conditions or loops with a variable iteration count").
			WithExample("items, setItems := vango.UseState(c, []string{})\nfor _, item := range items {\n    // render item without calling hooks\n}")
	}
	return nil
}

// countViolation reports a pass that called fewer hooks than recorded.
func (l *hookList) countViolation(id Identity, called int) *errors.VangoError {
	if l.committed && called < len(l.records) {
		return errors.New("E002").
			WithDetailf("identity %q: expected %d hooks, got %d", id, len(l.records), called).
			WithSuggestion("Do not return early before all hooks have been called")
	}
	return nil
}
