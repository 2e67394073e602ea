// Package demo contains the example components rendered by the vango-lite
// CLI and preview server.
package demo

import (
	"sort"
	"time"

	"github.com/vango-dev/vango-lite/internal/config"
	"github.com/vango-dev/vango-lite/internal/errors"
	"github.com/vango-dev/vango-lite/pkg/vango"
	"github.com/vango-dev/vango-lite/pkg/vdom"
)

// Options tune the stateful parts of a demo.
type Options struct {
	// Memo is applied to memoized components.
	Memo []vango.MemoOption

	// Lazy is applied to lazy components.
	Lazy []vango.LazyOption

	// LoadDelay simulates the latency of lazy loaders.
	LoadDelay time.Duration
}

// DefaultLoadDelay is the simulated loader latency of the lazy demo.
const DefaultLoadDelay = 300 * time.Millisecond

// OptionsFrom returns demo options carrying the memo and lazy settings of
// cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Memo:      cfg.MemoOptions(),
		Lazy:      cfg.LazyOptions(),
		LoadDelay: DefaultLoadDelay,
	}
}

// Tree is a built demo.
type Tree struct {
	Root *vdom.VNode

	// Lazy lists the lazy components inside Root, for callers that want to
	// preload them or wait for them to resolve.
	Lazy []*vango.LazyComponent
}

// Demo is a named example tree.
type Demo struct {
	Name        string
	Description string

	// Build returns a fresh tree. Memo caches and lazy load state belong to
	// the returned tree.
	Build func(opts Options) Tree
}

var registry = map[string]Demo{}

func register(d Demo) {
	registry[d.Name] = d
}

// Lookup returns the demo with the given name.
func Lookup(name string) (Demo, error) {
	d, ok := registry[name]
	if !ok {
		return Demo{}, errors.New("E160").WithDetailf("no demo named %q", name)
	}
	return d, nil
}

// All returns every demo sorted by name.
func All() []Demo {
	demos := make([]Demo, 0, len(registry))
	for _, d := range registry {
		demos = append(demos, d)
	}
	sort.Slice(demos, func(i, j int) bool { return demos[i].Name < demos[j].Name })
	return demos
}
