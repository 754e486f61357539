// ABOUTME: Prometheus instrumentation for classification and dispatch
// ABOUTME: All methods are nil-safe so components can run without metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ticket_router"

// Dispatch outcome labels
const (
	OutcomeDelivered      = "delivered"
	OutcomeDeliveryFailed = "delivery_failed"
	OutcomeUnknownRoute   = "unknown_route"
	OutcomeAbandoned      = "abandoned"
)

// Classification result labels
const (
	ClassifyMatched     = "matched"
	ClassifyUnavailable = "unavailable"
	ClassifyInvalid     = "invalid_selection"
)

// Metrics holds the router's collectors
type Metrics struct {
	dispatches      *prometheus.CounterVec
	classifications *prometheus.CounterVec
	classifyLatency prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global registration clashes.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched tickets by resolved route and outcome.",
		}, []string{"route", "outcome"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classifier results by kind.",
		}, []string{"result"}),
		classifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Latency of classifier calls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.dispatches, m.classifications, m.classifyLatency)
	}
	return m
}

// ObserveClassification records one classifier call
func (m *Metrics) ObserveClassification(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(result).Inc()
	m.classifyLatency.Observe(d.Seconds())
}

// ObserveDispatch records one dispatch outcome
func (m *Metrics) ObserveDispatch(route, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(route, outcome).Inc()
}
