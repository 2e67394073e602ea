package vango

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-dev/vango-lite/pkg/vdom"
)

var greeting = vdom.Static("Greeting", func(p vdom.Props) any {
	return vdom.El("h1", "Hello "+p.String("name"))
})

// gatedLoader returns a loader that blocks until release is closed.
func gatedLoader(calls *atomic.Int32, release <-chan struct{}, comp vdom.Component, err error) Loader {
	return func(ctx context.Context) (vdom.Component, error) {
		calls.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return comp, err
	}
}

func TestLazyPlaceholderThenResolved(t *testing.T) {
	obs := &recordingObserver{}
	s, root := newTestSession(t, WithObserver(obs))
	var calls atomic.Int32
	release := make(chan struct{})
	lazy := Lazy("Greeting", gatedLoader(&calls, release, greeting, nil))

	tree := vdom.CreateElement(lazy, vdom.Props{"name": "Ada"})
	if err := s.Render(tree, root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if got, want := root.InnerHTML(), "<div>Loading component...</div>"; got != want {
		t.Errorf("HTML while loading = %q, want %q", got, want)
	}
	if !lazy.Loading() || lazy.State() != Loading {
		t.Errorf("State() = %v, want loading", lazy.State())
	}

	// A second render while loading does not start another load.
	if err := s.ReRender(); err != nil {
		t.Fatal(err)
	}

	close(release)
	if err := lazy.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	eventually(t, "resolved render", func() bool {
		return root.InnerHTML() == "<h1>Hello Ada</h1>"
	})

	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}
	if lazy.State() != Loaded || lazy.Loading() {
		t.Errorf("State() = %v, want loaded", lazy.State())
	}
	if got := obs.snapshot().lazyLoads; got != 1 {
		t.Errorf("observed loads = %d, want 1", got)
	}
}

func TestLazyRerendersEveryWaitingSession(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	lazy := Lazy("Greeting", gatedLoader(&calls, release, greeting, nil),
		WithPlaceholder(vdom.El("i", "wait")))

	a, rootA := newTestSession(t)
	b, rootB := newTestSession(t)
	if err := a.Render(vdom.CreateElement(lazy, vdom.Props{"name": "A"}), rootA, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if err := b.Render(vdom.CreateElement(lazy, vdom.Props{"name": "B"}), rootB, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if rootB.InnerHTML() != "<i>wait</i>" {
		t.Errorf("placeholder = %q, want <i>wait</i>", rootB.InnerHTML())
	}

	close(release)
	eventually(t, "both sessions resolved", func() bool {
		return rootA.InnerHTML() == "<h1>Hello A</h1>" && rootB.InnerHTML() == "<h1>Hello B</h1>"
	})
	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}
}

func TestLazyFailureKeepsPlaceholder(t *testing.T) {
	var mu sync.Mutex
	var reported []error
	s, root := newTestSession(t, WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))

	boom := errors.New("boom")
	lazy := Lazy("Broken", func(context.Context) (vdom.Component, error) { return nil, boom })
	if err := s.Render(vdom.CreateElement(lazy, nil), root, RootIdentity); err != nil {
		t.Fatal(err)
	}

	err := lazy.Wait(context.Background())
	if !errors.Is(err, ErrLoaderFailure) || !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want ErrLoaderFailure wrapping boom", err)
	}
	eventually(t, "failure reported", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) == 1
	})
	if lazy.State() != Loading {
		t.Errorf("State() after failure = %v, want loading", lazy.State())
	}
	if !strings.Contains(root.InnerHTML(), DefaultPlaceholderText) {
		t.Errorf("HTML after failure = %q, want placeholder", root.InnerHTML())
	}
}

func TestLazyLoaderPanicAndNilComponent(t *testing.T) {
	tests := map[string]Loader{
		"panic": func(context.Context) (vdom.Component, error) { panic("bad loader") },
		"nil":   func(context.Context) (vdom.Component, error) { return nil, nil },
	}
	for name, loader := range tests {
		t.Run(name, func(t *testing.T) {
			lazy := Lazy(name, loader)
			if err := Preload(context.Background(), lazy); !errors.Is(err, ErrLoaderFailure) {
				t.Errorf("Preload() error = %v, want ErrLoaderFailure", err)
			}
		})
	}
}

func TestPreload(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	close(release)
	a := Lazy("A", gatedLoader(&calls, release, greeting, nil))
	b := Lazy("B", gatedLoader(&calls, release, greeting, nil))

	if err := Preload(context.Background(), a, b); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	if a.State() != Loaded || b.State() != Loaded {
		t.Errorf("states = %v, %v; want loaded", a.State(), b.State())
	}

	s, root := newTestSession(t)
	if err := s.Render(vdom.CreateElement(a, vdom.Props{"name": "now"}), root, RootIdentity); err != nil {
		t.Fatal(err)
	}
	if got := root.InnerHTML(); got != "<h1>Hello now</h1>" {
		t.Errorf("HTML = %q, want resolved output on first render", got)
	}
	if calls.Load() != 2 {
		t.Errorf("loader calls = %d, want 2", calls.Load())
	}
}

func TestLazyWaitHonorsContext(t *testing.T) {
	lazy := Lazy("Never", func(ctx context.Context) (vdom.Component, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := lazy.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
}

func TestLoadStateString(t *testing.T) {
	for state, want := range map[LoadState]string{
		Unloaded:     "unloaded",
		Loading:      "loading",
		Loaded:       "loaded",
		LoadState(9): "unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("LoadState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
