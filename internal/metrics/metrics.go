// Package metrics holds the Prometheus collectors for form submissions and
// page renders.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
	OutcomeCancelled    = "cancelled"
)

// UnknownForm labels submissions to form ids the server does not serve.
const UnknownForm = "unknown"

// State store operations and their results.
const (
	StatePut  = "put"
	StateTake = "take"

	StateOK      = "ok"
	StateHit     = "hit"
	StateMiss    = "miss"
	StateInvalid = "invalid"
	StateError   = "error"
)

const namespace = "formdemo"

// Metrics owns a registry so tests and multiple servers do not collide on
// the global default registerer.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	submitDuration  *prometheus.HistogramVec
	pageRenders     *prometheus.CounterVec
	stateOperations *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, including the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		// Labels: form, outcome (success, invalid, invalid_input, error, cancelled)
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome",
		}, []string{"form", "outcome"}),
		submitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "submit_duration_seconds",
			Help:      "Time spent handling a form submission",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"form"}),
		pageRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pages",
			Name:      "renders_total",
			Help:      "Page renders by route and status code",
		}, []string{"route", "status"}),
		// Labels: op (StatePut, StateTake), result (StateOK, StateHit, StateMiss, StateInvalid, StateError)
		stateOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "operations_total",
			Help:      "Validation state store operations",
		}, []string{"op", "result"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSubmission records one submission outcome and its duration.
func (m *Metrics) ObserveSubmission(form, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
	m.submitDuration.WithLabelValues(form).Observe(seconds)
}

// ObservePage records one page render.
func (m *Metrics) ObservePage(route string, status int) {
	if m == nil {
		return
	}
	m.pageRenders.WithLabelValues(route, http.StatusText(status)).Inc()
}

// ObserveState records a validation state store operation.
func (m *Metrics) ObserveState(op, result string) {
	if m == nil {
		return
	}
	m.stateOperations.WithLabelValues(op, result).Inc()
}
