package vango

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/vango-lite/pkg/host/memtree"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *memtree.Node) {
	t.Helper()
	doc := memtree.New()
	root, err := doc.Container("div")
	if err != nil {
		t.Fatalf("Container() error = %v", err)
	}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	s := NewSession(doc, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, root
}

// eventually polls cond until it holds or a timeout expires.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type recordingObserver struct {
	NopObserver

	mu         sync.Mutex
	passes     int
	passErrs   []error
	violations int
	hits       int
	misses     int
	evictions  int
	lazyErrs   []error
	lazyLoads  int
}

func (o *recordingObserver) PassCompleted(_ *Session, _ Identity, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes++
	if err != nil {
		o.passErrs = append(o.passErrs, err)
	}
}

func (o *recordingObserver) HookOrderViolation(*Session, Identity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.violations++
}

func (o *recordingObserver) MemoLookup(_ string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *recordingObserver) MemoEvicted(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evictions++
}

func (o *recordingObserver) LazyLoaded(_ string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lazyLoads++
	if err != nil {
		o.lazyErrs = append(o.lazyErrs, err)
	}
}

func (o *recordingObserver) snapshot() recordingObserver {
	o.mu.Lock()
	defer o.mu.Unlock()
	return recordingObserver{
		passes:     o.passes,
		passErrs:   append([]error(nil), o.passErrs...),
		violations: o.violations,
		hits:       o.hits,
		misses:     o.misses,
		evictions:  o.evictions,
		lazyErrs:   append([]error(nil), o.lazyErrs...),
		lazyLoads:  o.lazyLoads,
	}
}
