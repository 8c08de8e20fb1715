// Package metrics owns the Prometheus collectors of the service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dailyop"

var (
	sourceFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Total number of remote source loads by outcome.",
		},
		[]string{"source", "outcome"},
	)
	sourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Histogram of remote source load durations in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)
	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Source cache lookups by result (hit or miss).",
		},
		[]string{"source", "result"},
	)
	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Histogram of dashboard view computations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)
	indicatorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicator_failures_total",
			Help:      "Indicators that could not be built and were replaced by a warning.",
		},
		[]string{"indicator"},
	)

	registerOnce sync.Once
)

// InitPrometheusMetrics registers the collectors with the default registry.
// Safe to call more than once.
func InitPrometheusMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			sourceFetchTotal,
			sourceFetchDuration,
			cacheRequests,
			renderDuration,
			indicatorFailures,
		)
	})
}

// Recorder feeds the collectors. The zero value is ready to use.
type Recorder struct{}

func (Recorder) FetchDone(source string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	sourceFetchTotal.WithLabelValues(source, outcome).Inc()
	sourceFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (Recorder) CacheHit(source string) {
	cacheRequests.WithLabelValues(source, "hit").Inc()
}

func (Recorder) CacheMiss(source string) {
	cacheRequests.WithLabelValues(source, "miss").Inc()
}

func (Recorder) IndicatorFailed(indicator string) {
	indicatorFailures.WithLabelValues(indicator).Inc()
}

func (Recorder) RenderDone(elapsed time.Duration) {
	renderDuration.Observe(elapsed.Seconds())
}
