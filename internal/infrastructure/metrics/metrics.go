package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain Prometheus metrics and implements
// usecase.MetricsRecorder.
type Metrics struct {
	// Transaction metrics
	TransactionOperations *prometheus.CounterVec

	// Balance metrics
	BalanceComputations *prometheus.CounterVec
	BalanceDays         prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyledger_transaction_operations_total",
				Help: "Total transaction writes by operation",
			},
			[]string{"operation"},
		),

		BalanceComputations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyledger_balance_computations_total",
				Help: "Total daily balance computations by cache outcome",
			},
			[]string{"cache"},
		),
		BalanceDays: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dailyledger_balance_days",
			Help:    "Number of days in computed balance ranges",
			Buckets: []float64{1, 7, 31, 92, 366, 731, 1096, 1827, 3653},
		}),
	}
}

// TransactionOperation counts a create, update or delete.
func (m *Metrics) TransactionOperation(operation string) {
	m.TransactionOperations.WithLabelValues(operation).Inc()
}

// BalancesComputed records one balance request.
func (m *Metrics) BalancesComputed(days int, cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.BalanceComputations.WithLabelValues(outcome).Inc()
	m.BalanceDays.Observe(float64(days))
}
