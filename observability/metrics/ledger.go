package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks record lifecycle activity and settlement outcomes
// across every engine the node runs.
type LedgerMetrics struct {
	recordOps          *prometheus.CounterVec
	settlementFailures *prometheus.CounterVec
	swapLegFailures    prometheus.Counter
	eventsEmitted      *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			recordOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_record_ops_total",
				Help: "Count of record operations by kind and operation.",
			}, []string{"kind", "op"}),
			settlementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_settlement_failures_total",
				Help: "Count of failed value transfers by flow.",
			}, []string{"flow"}),
			swapLegFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "ledger_swap_leg_failures_total",
				Help: "Count of swaps where the first leg cleared but the second failed.",
			}),
			eventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "ledger_events_emitted_total",
				Help: "Count of ledger events emitted by type.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.recordOps,
			ledgerRegistry.settlementFailures,
			ledgerRegistry.swapLegFailures,
			ledgerRegistry.eventsEmitted,
		)
	})
	return ledgerRegistry
}

func (m *LedgerMetrics) ObserveRecordOp(kind, op string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	if op == "" {
		op = "unknown"
	}
	m.recordOps.WithLabelValues(kind, op).Inc()
}

func (m *LedgerMetrics) IncSettlementFailure(flow string) {
	if m == nil {
		return
	}
	if flow == "" {
		flow = "unknown"
	}
	m.settlementFailures.WithLabelValues(flow).Inc()
}

func (m *LedgerMetrics) IncSwapLegFailure() {
	if m == nil {
		return
	}
	m.swapLegFailures.Inc()
}

func (m *LedgerMetrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.eventsEmitted.WithLabelValues(eventType).Inc()
}
