// Package metrics exposes Prometheus counters for catalog operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics records product operation outcomes.
type Metrics struct {
	operations *prometheus.CounterVec
}

// New registers the catalog collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "product_operations_total",
			Help:      "Product operations by name and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.operations)
	return m
}

// Observe counts one operation. A nil receiver is a no-op.
func (m *Metrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// Operations exposes the underlying counter, for tests.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}
