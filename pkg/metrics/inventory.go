package metrics

import "github.com/prometheus/client_golang/prometheus"

// Mutation outcome labels.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// InventoryMetrics counts ledger mutations by operation and outcome. Rejected
// means the stock guard failed; error means the mutation never ran.
type InventoryMetrics struct {
	mutations *prometheus.CounterVec
	sweeps    *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Inventory ledger mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	sweeps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_expired_holds_total",
		Help: "Reservation holds released by the expiry sweep.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, sweeps)
	return &InventoryMetrics{
		mutations: mutations,
		sweeps:    sweeps,
	}
}

// IncMutation counts one ledger mutation attempt.
func (m *InventoryMetrics) IncMutation(operation, outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncExpiredHold counts one hold processed by the expiry sweep.
func (m *InventoryMetrics) IncExpiredHold(outcome string) {
	if m == nil || m.sweeps == nil {
		return
	}
	m.sweeps.WithLabelValues(normalizeLabel(outcome)).Inc()
}
