// Package metrics exposes prometheus collectors for the engine's key
// governance and treasury activity, served under /metrics on the query
// server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the engine collectors so tests can run isolated registries.
type Metrics struct {
	ProposalsCreated    prometheus.Counter
	VotesCast           prometheus.Counter
	ProposalsExecuted   prometheus.Counter
	ChallengesCompleted prometheus.Counter
	BountiesCreated     prometheus.Counter
	TreasuryBalance     prometheus.Gauge
}

// New registers the engine collectors on reg. Pass a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProposalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "devdao",
			Name:      "proposals_created_total",
			Help:      "Number of governance proposals created.",
		}),
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "devdao",
			Name:      "votes_cast_total",
			Help:      "Number of votes cast across all proposals.",
		}),
		ProposalsExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "devdao",
			Name:      "proposals_executed_total",
			Help:      "Number of proposals executed.",
		}),
		ChallengesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "devdao",
			Name:      "challenges_completed_total",
			Help:      "Number of challenge completions paid out.",
		}),
		BountiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "devdao",
			Name:      "bounties_created_total",
			Help:      "Number of bounties funded.",
		}),
		TreasuryBalance: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "devdao",
			Name:      "treasury_balance_base_units",
			Help:      "Current pooled treasury balance in native base units (float approximation).",
		}),
	}
}
