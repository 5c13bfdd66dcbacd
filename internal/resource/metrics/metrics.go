package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the resource module.
type Metrics struct {
	StatusTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all resource module metrics registered.
func New() *Metrics {
	return &Metrics{
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "plenario_resource_status_transitions_total",
			Help: "Total resource status transitions by target status",
		}, []string{"to_status"}),
	}
}

// IncrementStatusTransition records one committed status change.
func (m *Metrics) IncrementStatusTransition(toStatus string) {
	m.StatusTransitions.WithLabelValues(toStatus).Inc()
}
