// Package metrics provides the Prometheus-backed metrics collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements port.MetricsCollector on a Prometheus registry.
type Prometheus struct {
	invocations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPrometheus creates a collector and registers its metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "veridoc_provider_invocations_total",
				Help: "Total AI provider invocations by provider, model and outcome.",
			},
			[]string{"provider", "model", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "veridoc_provider_invocation_seconds",
				Help:    "AI provider invocation latency in seconds.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "model"},
		),
	}
	reg.MustRegister(p.invocations, p.latency)
	return p
}

// ObserveInvocation records one provider call.
func (p *Prometheus) ObserveInvocation(provider, model string, success bool, elapsed time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	p.invocations.WithLabelValues(provider, model, outcome).Inc()
	p.latency.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}
