// Package metrics holds the Prometheus metrics for the name service domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine outcomes. A nil *Metrics is safe to call so tests can
// skip registration.
type Metrics struct {
	CommitmentsCreated   prometheus.Counter
	CommitmentsRemoved   prometheus.Counter
	NamesRegistered      prometheus.Counter
	NamesRenewed         prometheus.Counter
	NamesTransferred     prometheus.Counter
	NamesDeregistered    prometheus.Counter
	RecordsSet           prometheus.Counter
	SubnodesRegistered   prometheus.Counter
	EventsDropped        prometheus.Counter
	OperationDurationSec *prometheus.HistogramVec
}

// New creates and registers all name service metrics.
func New() *Metrics {
	return &Metrics{
		CommitmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_commitments_created_total",
			Help: "Total number of commitments stored",
		}),
		CommitmentsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_commitments_removed_total",
			Help: "Total number of stale commitments garbage-collected",
		}),
		NamesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_names_registered_total",
			Help: "Total number of registrations created by reveal or force-register",
		}),
		NamesRenewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_names_renewed_total",
			Help: "Total number of registration renewals",
		}),
		NamesTransferred: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_names_transferred_total",
			Help: "Total number of ownership transfers",
		}),
		NamesDeregistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_names_deregistered_total",
			Help: "Total number of registrations removed",
		}),
		RecordsSet: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_resolver_records_set_total",
			Help: "Total number of resolver record updates",
		}),
		SubnodesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_subnodes_registered_total",
			Help: "Total number of subnode registrations created",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namegate_events_dropped_total",
			Help: "Total number of events dropped because the bus was full",
		}),
		OperationDurationSec: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namegate_engine_operation_duration_seconds",
			Help:    "Latency of engine operations",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncCommitmentsCreated() {
	if m != nil {
		m.CommitmentsCreated.Inc()
	}
}

func (m *Metrics) IncCommitmentsRemoved() {
	if m != nil {
		m.CommitmentsRemoved.Inc()
	}
}

func (m *Metrics) IncNamesRegistered() {
	if m != nil {
		m.NamesRegistered.Inc()
	}
}

func (m *Metrics) IncNamesRenewed() {
	if m != nil {
		m.NamesRenewed.Inc()
	}
}

func (m *Metrics) IncNamesTransferred() {
	if m != nil {
		m.NamesTransferred.Inc()
	}
}

func (m *Metrics) IncNamesDeregistered() {
	if m != nil {
		m.NamesDeregistered.Inc()
	}
}

func (m *Metrics) IncRecordsSet() {
	if m != nil {
		m.RecordsSet.Inc()
	}
}

func (m *Metrics) IncSubnodesRegistered() {
	if m != nil {
		m.SubnodesRegistered.Inc()
	}
}

func (m *Metrics) IncEventsDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}

// ObserveOperation records an operation latency in seconds.
func (m *Metrics) ObserveOperation(operation string, seconds float64) {
	if m == nil || m.OperationDurationSec == nil {
		return
	}
	m.OperationDurationSec.WithLabelValues(operation).Observe(seconds)
}
