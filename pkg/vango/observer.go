package vango

import "time"

// Observer receives runtime events for metrics and live previews. Methods
// are called synchronously and must not block or call back into the
// session that reports them.
type Observer interface {
	// PassCompleted is called after every render pass.
	PassCompleted(s *Session, identity Identity, d time.Duration, err error)

	// HookOrderViolation is called when a hook call does not match the
	// recorded order.
	HookOrderViolation(s *Session, identity Identity)

	// MemoLookup is called for every memoized render.
	MemoLookup(component string, hit bool)

	// MemoEvicted is called when a memo cache entry is evicted.
	MemoEvicted(component string)

	// LazyLoaded is called when a lazy component finished loading.
	LazyLoaded(component string, d time.Duration, err error)
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// some methods.
type NopObserver struct{}

func (NopObserver) PassCompleted(*Session, Identity, time.Duration, error) {}
func (NopObserver) HookOrderViolation(*Session, Identity)                  {}
func (NopObserver) MemoLookup(string, bool)                                {}
func (NopObserver) MemoEvicted(string)                                     {}
func (NopObserver) LazyLoaded(string, time.Duration, error)                {}

// observers fans events out to several observers.
type observers []Observer

func (o observers) PassCompleted(s *Session, id Identity, d time.Duration, err error) {
	for _, ob := range o {
		ob.PassCompleted(s, id, d, err)
	}
}

func (o observers) HookOrderViolation(s *Session, id Identity) {
	for _, ob := range o {
		ob.HookOrderViolation(s, id)
	}
}

func (o observers) MemoLookup(component string, hit bool) {
	for _, ob := range o {
		ob.MemoLookup(component, hit)
	}
}

func (o observers) MemoEvicted(component string) {
	for _, ob := range o {
		ob.MemoEvicted(component)
	}
}

func (o observers) LazyLoaded(component string, d time.Duration, err error) {
	for _, ob := range o {
		ob.LazyLoaded(component, d, err)
	}
}
