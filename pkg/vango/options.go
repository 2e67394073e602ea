package vango

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxPasses is the default number of consecutive render passes a
// single render request may trigger before it fails with a render loop error.
const DefaultMaxPasses = 25

const tracerName = "github.com/vango-dev/vango-lite/pkg/vango"

type sessionConfig struct {
	ctx             context.Context
	logger          *slog.Logger
	tracer          trace.Tracer
	observers       observers
	maxPasses       int
	strictHookOrder bool
	onError         func(error)
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		ctx:             context.Background(),
		logger:          slog.Default(),
		tracer:          otel.Tracer(tracerName),
		maxPasses:       DefaultMaxPasses,
		strictHookOrder: true,
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithContext sets the parent context of the session. Lazy loaders and
// effects started through Ctx.Context observe its cancellation.
func WithContext(ctx context.Context) Option {
	return func(c *sessionConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLogger sets the session logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for render pass and lazy load spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *sessionConfig) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithObserver adds an observer. It can be given several times.
func WithObserver(o Observer) Option {
	return func(c *sessionConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithMaxPasses bounds the passes one render request may chain through
// setters called during render. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(c *sessionConfig) {
		if n > 0 {
			c.maxPasses = n
		}
	}
}

// WithStrictHookOrder controls whether a hook order violation fails the pass
// (default) or is logged and the offending slot reset.
func WithStrictHookOrder(strict bool) Option {
	return func(c *sessionConfig) {
		c.strictHookOrder = strict
	}
}

// WithErrorHandler sets the handler for errors of passes that have no
// caller to return to: passes triggered by setters and lazy loads. The
// default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(c *sessionConfig) {
		c.onError = fn
	}
}
