package vango

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/host"
	"github.com/vango-dev/vango-lite/pkg/mount"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Sentinel errors. Match them with errors.Is; errors returned by the
// runtime carry more detail but share the code.
var (
	ErrNoRenderContext    = errors.New("E001")
	ErrHookOrderViolation = errors.New("E002")
	ErrHookTypeMismatch   = errors.New("E003")
	ErrRenderLoop         = errors.New("E006")
	ErrLoaderFailure      = errors.New("E007")
	ErrSessionClosed      = errors.New("E009")
	ErrMountFailure       = errors.New("E030")
)

// lastRender is the most recent top-level render request.
type lastRender struct {
	tree     *vdom.VNode
	target   host.Node
	identity Identity
}

// Session is the render driver. It owns the hook store of its identities
// and re-renders the last requested tree whenever state changes.
type Session struct {
	id     string
	doc    host.Document
	store  *Store
	cfg    sessionConfig
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	passes atomic.Uint64

	mu        sync.Mutex
	idle      *sync.Cond
	last      *lastRender
	rendering bool // a goroutine is running passes
	dirty     bool // another pass was requested while rendering
	batch     int  // Batch nesting depth
	pending   bool // a pass was requested inside Batch
	closed    bool
}

// NewSession creates a session that materializes into doc.
func NewSession(doc host.Document, opts ...Option) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(cfg.ctx)
	s := &Session{
		id:     uuid.NewString(),
		doc:    doc,
		store:  NewStore(),
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
	s.logger = cfg.logger.With("session", s.id)
	s.idle = sync.NewCond(&s.mu)
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Context returns the session context. It is cancelled by Close.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Passes returns the number of render passes run so far.
func (s *Session) Passes() uint64 {
	return s.passes.Load()
}

// Store returns the hook store. It must only be inspected while no pass is
// running.
func (s *Session) Store() *Store {
	return s.store
}

// Render records tree and target as the last render and runs a render pass
// for identity (RootIdentity if empty). Component nodes in tree are invoked
// on every pass, so later re-renders of the same tree reflect state changes.
//
// If a pass is already running (e.g. Render is called from an effect), the
// request is queued and Render returns nil.
func (s *Session) Render(tree *vdom.VNode, target host.Node, identity Identity) error {
	if identity == "" {
		identity = RootIdentity
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("E009")
	}
	s.last = &lastRender{tree: tree, target: target, identity: identity}
	s.mu.Unlock()

	return s.schedule()
}

// ReRender runs a render pass over the last render request. Hook state is
// kept; only the positional index restarts. It does nothing if Render was
// never called.
func (s *Session) ReRender() error {
	return s.schedule()
}

// Batch runs fn and defers every render it requests into a single pass at
// the end of the outermost batch.
func (s *Session) Batch(fn func()) error {
	s.mu.Lock()
	s.batch++
	s.mu.Unlock()

	func() {
		defer func() {
			s.mu.Lock()
			s.batch--
			s.mu.Unlock()
		}()
		fn()
	}()

	s.mu.Lock()
	run := s.batch == 0 && s.pending
	if run {
		s.pending = false
	}
	s.mu.Unlock()

	if run {
		return s.schedule()
	}
	return nil
}

// Close runs the stored effect cleanups of every identity in reverse hook
// order and cancels the session context. It waits for a running pass to
// finish, so it must not be called from inside a render pass.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	for s.rendering {
		s.idle.Wait()
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	ids := s.store.Identities()
	for i := len(ids) - 1; i >= 0; i-- {
		l := s.store.lists[ids[i]]
		for j := len(l.records) - 1; j >= 0; j-- {
			if cell, ok := l.records[j].value.(*effectCell); ok && cell.cleanup != nil {
				cleanup := cell.cleanup
				cell.cleanup = nil
				cleanup()
			}
		}
	}
	s.logger.Debug("session closed", "passes", s.Passes())
	return nil
}

// schedule starts a render loop on the calling goroutine, or marks the
// session dirty if a loop is already running.
func (s *Session) schedule() error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return errors.New("E009")
	case s.last == nil:
		s.mu.Unlock()
		s.logger.Debug("render requested before first Render, ignoring")
		return nil
	case s.batch > 0:
		s.pending = true
		s.mu.Unlock()
		return nil
	case s.rendering:
		s.dirty = true
		s.mu.Unlock()
		return nil
	}
	s.rendering = true
	s.dirty = false
	s.mu.Unlock()

	return s.flush()
}

// flush runs passes until no more are requested.
func (s *Session) flush() error {
	finished := false
	defer func() {
		if finished {
			return
		}
		s.mu.Lock()
		s.rendering = false
		s.dirty = false
		s.idle.Broadcast()
		s.mu.Unlock()
	}()

	for pass := 1; ; pass++ {
		s.mu.Lock()
		if pass > s.cfg.maxPasses {
			s.mu.Unlock()
			return errors.New("E006").WithDetailf("%d consecutive passes", s.cfg.maxPasses)
		}
		last := *s.last
		s.dirty = false
		s.mu.Unlock()

		if err := s.runPass(last); err != nil {
			return err
		}

		s.mu.Lock()
		if !s.dirty || s.closed {
			s.rendering = false
			s.idle.Broadcast()
			s.mu.Unlock()
			finished = true
			return nil
		}
		s.mu.Unlock()
	}
}

// runPass clears the target and mounts the tree under a fresh Ctx.
func (s *Session) runPass(last lastRender) (err error) {
	_, span := s.cfg.tracer.Start(s.ctx, "vango.render_pass", trace.WithAttributes(
		attribute.String("vango.session_id", s.id),
		attribute.String("vango.identity", string(last.identity)),
	))
	start := time.Now()
	c := &Ctx{s: s, identity: last.identity, list: s.store.list(last.identity)}

	defer func() {
		c.done = true
		if r := recover(); r != nil {
			ve, ok := r.(*errors.VangoError)
			if !ok {
				span.End()
				panic(r)
			}
			err = ve
		}

		d := time.Since(start)
		n := s.passes.Add(1)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.cfg.observers.PassCompleted(s, last.identity, d, err)
		s.logger.Debug("render pass finished",
			"identity", string(last.identity), "pass", n, "hooks", c.index, "duration", d, "error", err)
	}()

	if err := last.target.Clear(); err != nil {
		return errors.New("E030").WithDetail("clear mount target").Wrap(err)
	}
	if err := mount.Mount(s.doc, last.tree, last.target, c); err != nil {
		return err
	}
	return c.finish()
}

// requestRender schedules a pass for a state change that has no caller to
// return an error to.
func (s *Session) requestRender() {
	if err := s.schedule(); err != nil {
		s.reportError(err)
	}
}

func (s *Session) reportError(err error) {
	if errors.IsCode(err, "E009") {
		s.logger.Debug("render requested on closed session")
		return
	}
	if s.cfg.onError != nil {
		s.cfg.onError(err)
		return
	}
	s.logger.Error("render failed", "error", err)
}

func (s *Session) observeViolation(id Identity) {
	s.cfg.observers.HookOrderViolation(s, id)
}

func (s *Session) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
