// Package metrics defines the Prometheus collectors of a composition session
// and exposes an HTTP handler for scraping.
//
// Every method is safe on a nil *Metrics, so library code can record
// unconditionally and hosts opt in by passing a value.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gramwalk"

// Metrics holds all collectors.
type Metrics struct {
	ReadingsTotal      *prometheus.CounterVec
	WalksTotal         *prometheus.CounterVec
	WalkDuration       prometheus.Histogram
	SuggestionsApplied prometheus.Counter
	ObservationsTotal  prometheus.Counter
	CommitsTotal       prometheus.Counter
	CompositionLength  prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg uses
// prometheus.DefaultRegisterer. Registration errors panic, as with MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ReadingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "readings_total",
				Help:      "Readings offered to the compositor by result (accepted, rejected).",
			},
			[]string{"result"},
		),
		WalksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "walks_total",
				Help:      "Grid walks by status (ok, error).",
			},
			[]string{"status"},
		),
		WalkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "walk_duration_seconds",
				Help:      "Grid walk latency in seconds.",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		SuggestionsApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suggestions_applied_total",
				Help:      "Override-model suggestions applied to the grid.",
			},
		),
		ObservationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "observations_total",
				Help:      "User selections recorded in the override model.",
			},
		),
		CommitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Text commits, explicit or by buffer overflow.",
			},
		),
		CompositionLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "composition_length",
				Help:      "Readings currently in the composition buffer.",
			},
		),
	}

	reg.MustRegister(
		m.ReadingsTotal,
		m.WalksTotal,
		m.WalkDuration,
		m.SuggestionsApplied,
		m.ObservationsTotal,
		m.CommitsTotal,
		m.CompositionLength,
	)

	return m
}

// Reading records an InsertReading outcome.
func (m *Metrics) Reading(accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.ReadingsTotal.WithLabelValues(result).Inc()
}

// Walk records one walk and its latency.
func (m *Metrics) Walk(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.WalksTotal.WithLabelValues(status).Inc()
	m.WalkDuration.Observe(d.Seconds())
}

// SuggestionApplied counts one applied suggestion.
func (m *Metrics) SuggestionApplied() {
	if m == nil {
		return
	}
	m.SuggestionsApplied.Inc()
}

// Observation counts one recorded user selection.
func (m *Metrics) Observation() {
	if m == nil {
		return
	}
	m.ObservationsTotal.Inc()
}

// Commit counts one commit.
func (m *Metrics) Commit() {
	if m == nil {
		return
	}
	m.CommitsTotal.Inc()
}

// SetLength publishes the current buffer length.
func (m *Metrics) SetLength(n int) {
	if m == nil {
		return
	}
	m.CompositionLength.Set(float64(n))
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a scrape handler for a custom registry.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
