package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the publication module.
type Metrics struct {
	Issued *prometheus.CounterVec
}

// New creates a new Metrics instance with all publication module metrics registered.
func New() *Metrics {
	return &Metrics{
		Issued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "plenario_publications_issued_total",
			Help: "Total publications issued by type",
		}, []string{"type"}),
	}
}

// IncrementIssued records one issued publication.
func (m *Metrics) IncrementIssued(pubType string) {
	m.Issued.WithLabelValues(pubType).Inc()
}
