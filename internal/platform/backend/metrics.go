package backend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the outbound-request metrics for the backend client.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BreakerState    *prometheus.GaugeVec
}

// NewMetrics creates the client metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rxgate_backend_requests_total",
			Help: "Total requests issued to the pharmacy backend",
		}, []string{"method", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxgate_backend_request_duration_seconds",
			Help:    "Backend request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rxgate_backend_breaker_state",
			Help: "Backend circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}
	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.BreakerState)
	}
	return m
}

func (m *Metrics) observe(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}
