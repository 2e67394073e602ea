// Package metrics exports vango-lite runtime events as Prometheus metrics.
//
// Metrics collected:
//   - vango_render_passes_total: Counter of render passes by identity and status
//   - vango_render_pass_duration_seconds: Histogram of render pass duration
//   - vango_hook_order_violations_total: Counter of hook order violations by identity
//   - vango_memo_lookups_total: Counter of memo lookups by component and result
//   - vango_memo_evictions_total: Counter of memo cache evictions by component
//   - vango_lazy_loads_total: Counter of lazy loads by component and status
//   - vango_lazy_load_duration_seconds: Histogram of lazy load duration
//   - vango_active_sessions: Gauge of open preview sessions
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.New(metrics.WithRegistry(reg))
//	s := vango.NewSession(doc, vango.WithObserver(collector))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vango-lite/pkg/vango"
)

// Config configures the collector.
type Config struct {
	// Namespace prefixes every metric name (default: "vango").
	Namespace string

	// Buckets are used by both duration histograms
	// (default: prometheus.DefBuckets).
	Buckets []float64

	// Registry receives the metrics (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

// Collector implements vango.Observer by updating Prometheus metrics.
type Collector struct {
	passesTotal      *prometheus.CounterVec
	passDuration     prometheus.Histogram
	violationsTotal  *prometheus.CounterVec
	memoLookups      *prometheus.CounterVec
	memoEvictions    *prometheus.CounterVec
	lazyLoadsTotal   *prometheus.CounterVec
	lazyLoadDuration *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
}

var _ vango.Observer = (*Collector)(nil)

// builder creates metrics under one namespace on one registerer.
type builder struct {
	factory promauto.Factory
	cfg     Config
}

func (b builder) counter(name, help string, labels ...string) *prometheus.CounterVec {
	return b.factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: b.cfg.Namespace, Name: name, Help: help,
	}, labels)
}

func (b builder) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: b.cfg.Namespace, Name: name, Help: help, Buckets: b.cfg.Buckets,
	}
}

// New creates a collector and registers its metrics. Registering twice on
// the same registry panics, like promauto.
func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "vango",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	b := builder{factory: promauto.With(cfg.Registry), cfg: cfg}

	return &Collector{
		passesTotal: b.counter("render_passes_total",
			"Total number of render passes", "identity", "status"),
		passDuration: b.factory.NewHistogram(b.histogramOpts("render_pass_duration_seconds",
			"Render pass duration in seconds")),
		violationsTotal: b.counter("hook_order_violations_total",
			"Total number of hook order violations", "identity"),
		memoLookups: b.counter("memo_lookups_total",
			"Total number of memo cache lookups", "component", "result"),
		memoEvictions: b.counter("memo_evictions_total",
			"Total number of memo cache evictions", "component"),
		lazyLoadsTotal: b.counter("lazy_loads_total",
			"Total number of finished lazy component loads", "component", "status"),
		lazyLoadDuration: b.factory.NewHistogramVec(b.histogramOpts("lazy_load_duration_seconds",
			"Lazy component load duration in seconds"), []string{"component"}),
		activeSessions: b.factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active_sessions",
			Help:      "Number of open render sessions",
		}),
	}
}

// PassCompleted implements vango.Observer.
func (c *Collector) PassCompleted(_ *vango.Session, identity vango.Identity, d time.Duration, err error) {
	c.passesTotal.WithLabelValues(string(identity), status(err)).Inc()
	c.passDuration.Observe(d.Seconds())
}

// HookOrderViolation implements vango.Observer.
func (c *Collector) HookOrderViolation(_ *vango.Session, identity vango.Identity) {
	c.violationsTotal.WithLabelValues(string(identity)).Inc()
}

// MemoLookup implements vango.Observer.
func (c *Collector) MemoLookup(component string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.memoLookups.WithLabelValues(component, result).Inc()
}

// MemoEvicted implements vango.Observer.
func (c *Collector) MemoEvicted(component string) {
	c.memoEvictions.WithLabelValues(component).Inc()
}

// LazyLoaded implements vango.Observer.
func (c *Collector) LazyLoaded(component string, d time.Duration, err error) {
	c.lazyLoadsTotal.WithLabelValues(component, status(err)).Inc()
	c.lazyLoadDuration.WithLabelValues(component).Observe(d.Seconds())
}

// SessionOpened increments the active session gauge.
func (c *Collector) SessionOpened() {
	c.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (c *Collector) SessionClosed() {
	c.activeSessions.Dec()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
