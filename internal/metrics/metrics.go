// Package metrics exposes refresh counters for Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"RateScope/internal/refresh"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeFault   = "fault"
)

// Metrics holds the refresh collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry
	Refresh  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Records  *prometheus.GaugeVec
}

// New registers the collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratescope",
			Name:      "refresh_total",
			Help:      "Refresh cycles by source and outcome.",
		}, []string{"source", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ratescope",
			Name:      "refresh_duration_seconds",
			Help:      "Time spent fetching one refresh cycle.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ratescope",
			Name:      "records",
			Help:      "Items in the latest successful snapshot.",
		}, []string{"source"}),
	}
	m.Registry.MustRegister(
		m.Refresh, m.Duration, m.Records,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Label classifies an outcome error.
func Label(err error) string {
	var fault *refresh.FaultError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, refresh.ErrEmptyResult):
		return OutcomeEmpty
	case errors.As(err, &fault):
		return OutcomeFault
	default:
		return OutcomeError
	}
}

// Observer returns a runner observer recording outcomes for source. A nil
// Metrics yields a no-op observer.
func Observer[E any](m *Metrics, source string) func(refresh.Outcome[[]E]) {
	if m == nil {
		return func(refresh.Outcome[[]E]) {}
	}
	return func(o refresh.Outcome[[]E]) {
		m.Refresh.WithLabelValues(source, Label(o.Err)).Inc()
		m.Duration.WithLabelValues(source).Observe(o.Duration().Seconds())
		if o.OK() {
			m.Records.WithLabelValues(source).Set(float64(len(o.Value)))
		}
	}
}
