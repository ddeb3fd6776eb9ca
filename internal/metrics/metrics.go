// Package metrics provides synchronization metrics for a photomap client.
// It wraps Prometheus collectors in a private registry so several clients
// (and tests) never collide on the global one. A nil *Collector is valid and
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector records fetch, commit and error metrics.
type Collector struct {
	registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchSuppressed *prometheus.CounterVec
	fetchInFlight   *prometheus.GaugeVec
	fetchLatency    *prometheus.HistogramVec
	commitTotal     *prometheus.CounterVec
	errorsReported  prometheus.Counter
}

// NewCollector creates a collector. An empty namespace defaults to "photomap".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "photomap"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Completed fetches by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	c.fetchSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_suppressed_total",
			Help:      "Fetches dropped because one was already in flight",
		},
		[]string{"resource"},
	)

	c.fetchInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_inflight",
			Help:      "Outstanding fetches by resource (0 or 1)",
		},
		[]string{"resource"},
	)

	c.fetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time taken by a fetch",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"resource"},
	)

	c.commitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_total",
			Help:      "Metadata commits by field and outcome",
		},
		[]string{"field", "outcome"},
	)

	c.errorsReported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_reported_total",
			Help:      "Messages written to the error slot",
		},
	)

	c.registry.MustRegister(
		c.fetchTotal,
		c.fetchSuppressed,
		c.fetchInFlight,
		c.fetchLatency,
		c.commitTotal,
		c.errorsReported,
	)

	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordFetchStart marks a fetch as in flight.
func (c *Collector) RecordFetchStart(resource string) {
	if c == nil {
		return
	}
	c.fetchInFlight.WithLabelValues(resource).Inc()
}

// RecordFetchEnd records a completed fetch.
func (c *Collector) RecordFetchEnd(resource string, duration time.Duration, success bool) {
	if c == nil {
		return
	}
	c.fetchInFlight.WithLabelValues(resource).Dec()
	c.fetchLatency.WithLabelValues(resource).Observe(duration.Seconds())
	c.fetchTotal.WithLabelValues(resource, outcome(success)).Inc()
}

// RecordFetchSuppressed records a fetch dropped by the in-flight guard.
func (c *Collector) RecordFetchSuppressed(resource string) {
	if c == nil {
		return
	}
	c.fetchSuppressed.WithLabelValues(resource).Inc()
}

// RecordCommit records a metadata commit.
func (c *Collector) RecordCommit(field string, success bool) {
	if c == nil {
		return
	}
	c.commitTotal.WithLabelValues(field, outcome(success)).Inc()
}

// RecordErrorReported counts a message written to the error slot.
func (c *Collector) RecordErrorReported() {
	if c == nil {
		return
	}
	c.errorsReported.Inc()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
