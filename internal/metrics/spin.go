package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	spinTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_spin_requests_total",
			Help: "Total spin requests by result and game",
		},
		[]string{"result", "game"},
	)

	spinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slot_spin_duration_ms",
			Help:    "Spin request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result", "game"},
	)

	wagered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_wagered_amount_total",
			Help: "Sum of accepted bets",
		},
		[]string{"game"},
	)

	paidOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_paid_amount_total",
			Help: "Sum of credited wins",
		},
		[]string{"game"},
	)

	observedRTP = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slot_observed_rtp_percent",
			Help: "Observed RTP per game, total and over the sliding window",
		},
		[]string{"game", "scope"},
	)

	reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_reconciliation_flagged_total",
			Help: "Spins flagged for reconciliation by reason",
		},
		[]string{"reason"},
	)

	lockReleaseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_idempotency_lock_release_failures_total",
			Help: "Idempotency lock releases that failed or found a foreign token",
		},
		[]string{"cause"},
	)
)

// RecordSpin - итог запроса спина. result: success, replay, rejected, fail
func RecordSpin(result, game string, started time.Time) {
	spinTotal.WithLabelValues(result, game).Inc()
	spinDuration.WithLabelValues(result, game).Observe(float64(time.Since(started).Milliseconds()))
}

func AddWager(game string, bet, win decimal.Decimal) {
	wagered.WithLabelValues(game).Add(bet.InexactFloat64())
	if win.IsPositive() {
		paidOut.WithLabelValues(game).Add(win.InexactFloat64())
	}
}

func SetObservedRTP(game string, total, window float64) {
	observedRTP.WithLabelValues(game, "total").Set(total)
	observedRTP.WithLabelValues(game, "window").Set(window)
}

func RecordReconciliation(reason string) {
	reconciliations.WithLabelValues(reason).Inc()
}

func RecordLockReleaseFailure(cause string) {
	lockReleaseFailures.WithLabelValues(cause).Inc()
}
