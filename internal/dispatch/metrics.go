package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bobmcallan/square-mcp/internal/endpoint"
)

// Outcome labels for calls that never produced an HTTP status.
const (
	outcomeMissingParameter = "missing_parameter"
	outcomeBuildError       = "build_error"
	outcomeTransportError   = "transport_error"
)

// Metrics counts dispatches and their latency per Square operation.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the dispatch collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "square_dispatch_requests_total",
				Help: "Square API calls by service, operation and outcome (HTTP status or failure kind).",
			},
			[]string{"service", "operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "square_dispatch_duration_seconds",
				Help:    "Latency of Square API calls that reached the network.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) count(desc endpoint.Descriptor, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(desc.Service, desc.Name, outcome).Inc()
}

func (m *Metrics) observe(desc endpoint.Descriptor, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(desc.Service, desc.Name).Observe(d.Seconds())
}
