package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the subject module.
type Metrics struct {
	Classifications prometheus.Counter
}

// New creates a new Metrics instance with all subject module metrics registered.
func New() *Metrics {
	return &Metrics{
		Classifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "plenario_subject_classifications_total",
			Help: "Total resource classification operations",
		}),
	}
}

// IncrementClassifications records one committed classification.
func (m *Metrics) IncrementClassifications() {
	m.Classifications.Inc()
}
