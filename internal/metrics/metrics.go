// Package metrics exports render and attribute cache statistics to Prometheus.
package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/swdunlop/emit-go"
)

// Config configures the collectors created by New.
type Config struct {
	// Namespace prefixes every metric name (default: "emit").
	Namespace string

	// Registry receives the collectors (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for render durations (default: prometheus.DefBuckets).
	Buckets []float64
}

// Metrics records render observations and exposes the statistics of an attribute cache.
type Metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	wrote    prometheus.Histogram
}

// New registers render metrics and a collector for the cache's statistics.  Pass Observe to emit.Observe so each
// render call is counted.
func New(cache *emit.AttrCache, cfg Config) *Metrics {
	if cfg.Namespace == `` {
		cfg.Namespace = `emit`
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}
	factory := promauto.With(cfg.Registry)
	cfg.Registry.MustRegister(newCacheCollector(cfg.Namespace, cache))
	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      `renders_total`,
			Help:      `Render calls by top level component and outcome.`,
		}, []string{`component`, `outcome`}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      `render_duration_seconds`,
			Help:      `Time spent in render calls.`,
			Buckets:   cfg.Buckets,
		}, []string{`component`}),
		wrote: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      `render_bytes`,
			Help:      `Bytes appended by successful render calls.`,
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}
}

// Observe records a completed render call.
func (m *Metrics) Observe(obs emit.Observation) {
	component := strings.TrimPrefix(obs.Component, `*`)
	m.duration.WithLabelValues(component).Observe(obs.Took.Seconds())
	if obs.Err != nil {
		m.renders.WithLabelValues(component, outcome(obs.Err)).Inc()
		return
	}
	m.renders.WithLabelValues(component, `ok`).Inc()
	m.wrote.Observe(float64(obs.Wrote))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, emit.ErrUnsafeAttributeName):
		return `unsafe_attribute_name`
	case errors.Is(err, emit.ErrInvalidElement):
		return `invalid_element`
	case errors.Is(err, emit.ErrNotAComponent):
		return `not_a_component`
	case errors.Is(err, emit.ErrUnsafeContent):
		return `unsafe_content`
	default:
		return `error`
	}
}

// cacheCollector reads the cache statistics at scrape time, since the cache keeps its own counters.
type cacheCollector struct {
	cache   *emit.AttrCache
	entries *prometheus.Desc
	hits    *prometheus.Desc
	misses  *prometheus.Desc
}

func newCacheCollector(namespace string, cache *emit.AttrCache) *cacheCollector {
	return &cacheCollector{
		cache: cache,
		entries: prometheus.NewDesc(prometheus.BuildFQName(namespace, `attr_cache`, `entries`),
			`Distinct attribute sets serialized by the cache.`, nil, nil),
		hits: prometheus.NewDesc(prometheus.BuildFQName(namespace, `attr_cache`, `hits_total`),
			`Attribute sets served from the cache.`, nil, nil),
		misses: prometheus.NewDesc(prometheus.BuildFQName(namespace, `attr_cache`, `misses_total`),
			`Attribute sets serialized because they were not cached.`, nil, nil),
	}
}

func (cc *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cc.entries
	ch <- cc.hits
	ch <- cc.misses
}

func (cc *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := cc.cache.Stats()
	ch <- prometheus.MustNewConstMetric(cc.entries, prometheus.GaugeValue, float64(stats.Entries))
	ch <- prometheus.MustNewConstMetric(cc.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(cc.misses, prometheus.CounterValue, float64(stats.Misses))
}
