// Package metrics keeps live per-variant latency histograms for progress
// display and exposes the same observations to Prometheus.
//
// The figures here are approximations (HDR histograms, Prometheus buckets).
// The authoritative report is computed by package stats from the raw samples.
package metrics

import (
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// EngineConfig contains configuration for the metrics engine.
type EngineConfig struct {
	// HistogramMax is the largest recordable latency in milliseconds (default: 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int

	// Namespace prefixes the Prometheus metric names (default: searchperf)
	Namespace string
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistogramMax:     3600000,
		HistogramSigFigs: 3,
		Namespace:        "searchperf",
	}
}

// Engine records query latencies per variant.
//
// # Thread Safety
//
// Engine is safe for concurrent use. HDR histograms are not, so they are
// guarded by a mutex; Prometheus collectors synchronise themselves.
type Engine struct {
	config EngineConfig

	mu         sync.Mutex
	latencies  map[string]*hdrhistogram.Histogram
	documents  int64
	queryTotal int64

	registry       *prometheus.Registry
	latencyHist    *prometheus.HistogramVec
	hitsHist       *prometheus.HistogramVec
	documentsTotal prometheus.Counter
}

// VariantSnapshot is a point-in-time view of one variant's latencies.
type VariantSnapshot struct {
	Count int64
	Mean  float64
	P95   int64
	Max   int64
}

// NewEngine creates a new metrics engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates a new metrics engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	e := &Engine{
		config:    config,
		latencies: make(map[string]*hdrhistogram.Histogram),
		registry:  prometheus.NewRegistry(),
		latencyHist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "query_latency_milliseconds",
			Help:      "Search latency per query variant.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"variant"}),
		hitsHist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "query_hits",
			Help:      "Total matched documents per query variant.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
		}, []string{"variant"}),
		documentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "documents_indexed_total",
			Help:      "Documents acknowledged by bulk requests.",
		}),
	}
	e.registry.MustRegister(e.latencyHist, e.hitsHist, e.documentsTotal)
	return e
}

// RecordQuery records one search for variant.
func (e *Engine) RecordQuery(variant string, latencyMillis, hits int64) {
	value := latencyMillis
	if value < 0 {
		value = 0
	}
	if value > e.config.HistogramMax {
		value = e.config.HistogramMax
	}

	e.mu.Lock()
	hist, ok := e.latencies[variant]
	if !ok {
		hist = hdrhistogram.New(1, e.config.HistogramMax, e.config.HistogramSigFigs)
		e.latencies[variant] = hist
	}
	// Cannot fail: value is clamped to the histogram range.
	_ = hist.RecordValue(value)
	e.queryTotal++
	e.mu.Unlock()

	e.latencyHist.WithLabelValues(variant).Observe(float64(latencyMillis))
	e.hitsHist.WithLabelValues(variant).Observe(float64(hits))
}

// RecordDocuments records n documents acknowledged by the engine.
func (e *Engine) RecordDocuments(n int) {
	e.mu.Lock()
	e.documents += int64(n)
	e.mu.Unlock()

	e.documentsTotal.Add(float64(n))
}

// Documents returns the number of documents recorded so far.
func (e *Engine) Documents() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.documents
}

// Queries returns the number of searches recorded across all variants.
func (e *Engine) Queries() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queryTotal
}

// Snapshot returns the current latency view for variant. An unknown variant
// yields the zero snapshot.
func (e *Engine) Snapshot(variant string) VariantSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	hist, ok := e.latencies[variant]
	if !ok {
		return VariantSnapshot{}
	}
	return VariantSnapshot{
		Count: hist.TotalCount(),
		Mean:  hist.Mean(),
		P95:   hist.ValueAtQuantile(95),
		Max:   hist.Max(),
	}
}

// Registry returns the Prometheus registry holding the engine's collectors.
func (e *Engine) Registry() *prometheus.Registry {
	return e.registry
}
