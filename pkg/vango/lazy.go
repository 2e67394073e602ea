package vango

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// DefaultPlaceholderText is the text of the default lazy placeholder.
const DefaultPlaceholderText = "Loading component..."

// LoadState is the state of a lazy component. It only moves forward.
type LoadState uint8

const (
	Unloaded LoadState = iota
	Loading
	Loaded
)

// String returns a human-readable name for the state.
func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Loader resolves the component of a lazy component.
type Loader func(ctx context.Context) (vdom.Component, error)

// LazyOption configures Lazy.
type LazyOption func(*LazyComponent)

// WithPlaceholder sets the node rendered while the component loads.
func WithPlaceholder(node any) LazyOption {
	return func(l *LazyComponent) {
		l.placeholder = node
	}
}

// LazyComponent renders a placeholder until its loader resolved, then the
// resolved component with the original props. The loader runs at most once.
type LazyComponent struct {
	name        string
	loader      Loader
	placeholder any

	mu      sync.Mutex
	state   LoadState
	comp    vdom.Component
	err     error
	waiters map[*Session]struct{}
	done    chan struct{}
}

// Lazy creates a lazy component.
func Lazy(name string, loader Loader, opts ...LazyOption) *LazyComponent {
	l := &LazyComponent{
		name:        name,
		loader:      loader,
		placeholder: vdom.El("div", DefaultPlaceholderText),
		waiters:     make(map[*Session]struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ComponentName implements vdom.Component.
func (l *LazyComponent) ComponentName() string {
	return l.name
}

// Loading implements vdom.LoadingReporter. It is true from the first render
// until the loader succeeded, and stays true if the loader failed.
func (l *LazyComponent) Loading() bool {
	return l.State() == Loading
}

// State returns the load state.
func (l *LazyComponent) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the loader failure, if any.
func (l *LazyComponent) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Render implements HookComponent. The first render starts the loader on a
// goroutine with the session context; sessions that rendered the
// placeholder are re-rendered once it resolves.
func (l *LazyComponent) Render(c *Ctx, props vdom.Props) any {
	l.mu.Lock()
	switch l.state {
	case Loaded:
		comp := l.comp
		l.mu.Unlock()
		return vdom.FromProps(comp, props)
	case Unloaded:
		l.state = Loading
		l.waiters[c.s] = struct{}{}
		l.mu.Unlock()
		c.s.logger.Debug("lazy load started", "component", l.name)
		go l.load(c.s.ctx, c.s.cfg.tracer, c.s.cfg.observers)
	default:
		if l.err == nil {
			l.waiters[c.s] = struct{}{}
		}
		l.mu.Unlock()
	}
	return l.placeholder
}

// watch registers s as a waiter while the load is in flight. A failed load
// keeps reporting loading but registers nobody.
func (l *LazyComponent) watch(s *Session) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Loading {
		return false
	}
	if l.err == nil {
		l.waiters[s] = struct{}{}
	}
	return true
}

// Wait blocks until the loader finished or ctx is done. It returns the
// loader failure or the context error.
func (l *LazyComponent) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Preload resolves lazy components concurrently without rendering them.
// Components that are already loading are waited for.
func Preload(ctx context.Context, lazies ...*LazyComponent) error {
	g, ctx := errgroup.WithContext(ctx)
	tracer := otel.Tracer(tracerName)
	for _, l := range lazies {
		l := l
		g.Go(func() error {
			l.mu.Lock()
			start := l.state == Unloaded
			if start {
				l.state = Loading
			}
			l.mu.Unlock()

			if start {
				l.load(ctx, tracer, nil)
			}
			return l.Wait(ctx)
		})
	}
	return g.Wait()
}

func (l *LazyComponent) load(ctx context.Context, tracer trace.Tracer, obs observers) {
	ctx, span := tracer.Start(ctx, "vango.lazy_load", trace.WithAttributes(
		attribute.String("vango.component", l.name),
	))
	start := time.Now()
	comp, err := l.run(ctx)
	d := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	obs.LazyLoaded(l.name, d, err)

	var failure *errors.VangoError
	if err != nil {
		failure = errors.New("E007").WithDetailf("component %s", l.name).Wrap(err)
	}

	l.mu.Lock()
	waiters := l.waiters
	l.waiters = make(map[*Session]struct{})
	if failure != nil {
		l.err = failure
	} else {
		l.state = Loaded
		l.comp = comp
	}
	close(l.done)
	l.mu.Unlock()

	for s := range waiters {
		if failure != nil {
			s.reportError(failure)
			continue
		}
		if err := s.ReRender(); err != nil {
			s.reportError(err)
		}
	}
}

// run calls the loader, turning panics and nil results into errors.
func (l *LazyComponent) run(ctx context.Context) (comp vdom.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			comp, err = nil, fmt.Errorf("loader panicked: %v", r)
		}
	}()
	comp, err = l.loader(ctx)
	if err == nil && comp == nil {
		err = fmt.Errorf("loader returned no component")
	}
	return comp, err
}
