// Package metrics holds process-wide Prometheus metrics shared across
// domains; domain-specific metrics live next to their domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level metrics for the application.
type Metrics struct {
	RequestDurationSec *prometheus.HistogramVec
	RequestsTotal      *prometheus.CounterVec
}

// New creates and registers the platform metrics.
func New() *Metrics {
	return &Metrics{
		RequestDurationSec: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namegate_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "namegate_http_requests_total",
			Help: "Total number of HTTP requests by status code",
		}, []string{"method", "path", "status"}),
	}
}
