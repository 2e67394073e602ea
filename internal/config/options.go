package config

import (
	"log/slog"

	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// SessionOptions returns the session options for the render and hook
// settings, plus a logger if one is given.
func (c *Config) SessionOptions(logger *slog.Logger) []vango.Option {
	opts := []vango.Option{
		vango.WithMaxPasses(c.Render.MaxPasses),
		vango.WithStrictHookOrder(c.StrictHookOrder()),
	}
	if logger != nil {
		opts = append(opts, vango.WithLogger(logger))
	}
	return opts
}

// MemoOptions returns the options for memoized components.
func (c *Config) MemoOptions() []vango.MemoOption {
	return []vango.MemoOption{vango.WithCacheSize(c.MemoCacheSize())}
}

// LazyOptions returns the options for lazy components.
func (c *Config) LazyOptions() []vango.LazyOption {
	if c.Lazy.Placeholder == "" {
		return nil
	}
	return []vango.LazyOption{vango.WithPlaceholder(vdom.El("div", c.Lazy.Placeholder))}
}
