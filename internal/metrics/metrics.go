// Package metrics holds the Prometheus collectors for roomledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment outcomes used as the "outcome" label.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	payments         *prometheus.CounterVec
	expensesCleared  prometheus.Counter
	versionConflicts prometheus.Counter
	rpcDuration      *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		payments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomledger",
			Name:      "payments_total",
			Help:      "Payment attempts against expenses, by outcome and rejection code.",
		}, []string{"outcome", "code"}),
		expensesCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "roomledger",
			Name:      "expenses_cleared_total",
			Help:      "Expenses whose remaining balance reached zero.",
		}),
		versionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "roomledger",
			Name:      "settlement_version_conflicts_total",
			Help:      "Settlement writes that lost a compare-and-swap and were re-read.",
		}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roomledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// Payment records one ApplyPayment outcome. code is empty for applied payments.
func (m *Metrics) Payment(outcome, code string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(outcome, code).Inc()
}

// ExpenseCleared records an expense reaching zero remaining balance.
func (m *Metrics) ExpenseCleared() {
	if m == nil {
		return
	}
	m.expensesCleared.Inc()
}

// VersionConflict records a lost compare-and-swap.
func (m *Metrics) VersionConflict() {
	if m == nil {
		return
	}
	m.versionConflicts.Inc()
}

// ObserveRPC records the latency of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(seconds)
}
