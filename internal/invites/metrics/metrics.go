// Package metrics holds the Prometheus collectors for the invite service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// InvitesIssued counts invites written to the store.
	// Labels:
	//   - kind: "code", "email"
	InvitesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_issued_total",
			Help: "Total number of invites issued",
		},
		[]string{"kind"},
	)

	// IssueRejections counts issue requests refused before reaching the store.
	// Labels:
	//   - kind: "code", "email"
	//   - reason: "quota", "rate_limited", "invalid"
	IssueRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_issue_rejections_total",
			Help: "Total number of refused issue requests",
		},
		[]string{"kind", "reason"},
	)

	// Validations counts token lookups.
	// Labels:
	//   - kind: "code", "email"
	//   - outcome: "success" (valid), "rejected" (unknown, used or expired), "error"
	Validations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_validations_total",
			Help: "Total number of invite validations",
		},
		[]string{"kind", "outcome"},
	)

	// Redemptions counts redemption attempts.
	Redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_redemptions_total",
			Help: "Total number of invite redemption attempts",
		},
		[]string{"kind", "outcome"},
	)

	// CleanupRemoved counts expired invites purged by Cleanup.
	CleanupRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invites_cleanup_removed_total",
			Help: "Total number of expired invites removed by cleanup",
		},
	)

	// CleanupRuns counts cleanup passes by outcome.
	CleanupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_cleanup_runs_total",
			Help: "Total number of cleanup passes",
		},
		[]string{"outcome"},
	)

	// MailDeliveries counts invite emails handed to the mail transport.
	// Labels:
	//   - outcome: "success", "error", "circuit_open", "disabled"
	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invites_mail_deliveries_total",
			Help: "Total number of invite email deliveries",
		},
		[]string{"outcome"},
	)

	// OperationDuration measures ledger operations including store round trips.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invites_operation_duration_seconds",
			Help:    "Duration of invite ledger operations in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// ObserveDuration records time since start under operation. Use with defer:
//
//	defer metrics.ObserveDuration("redeem", time.Now())
func ObserveDuration(operation string, start time.Time) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Outcome maps a (bool, error) result onto an outcome label.
func Outcome(ok bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case ok:
		return OutcomeSuccess
	default:
		return OutcomeRejected
	}
}
