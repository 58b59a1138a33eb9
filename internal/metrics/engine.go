package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Matching engine metrics.
var (
	MatchesReturnedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "matches_returned_total",
			Help:      "Total matches returned by discovery passes",
		},
	)

	ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "claims_total",
			Help:      "Claim attempts by result",
		},
		[]string{"result"}, // ok, conflict, unauthorized, not_found, error
	)

	DismissalsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "dismissals_total",
			Help:      "Total dismissal records written",
		},
	)

	NotificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refound",
			Name:      "notifications_created_total",
			Help:      "Notifications created by kind",
		},
		[]string{"kind"},
	)
)

var registerEngineOnce sync.Once

// RegisterEngineMetrics registers matching engine metrics with the default
// registry. Safe to call more than once.
func RegisterEngineMetrics() {
	registerEngineOnce.Do(func() {
		prometheus.MustRegister(
			MatchesReturnedTotal,
			ClaimsTotal,
			DismissalsTotal,
			NotificationsCreatedTotal,
		)
	})
}
