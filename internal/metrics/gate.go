package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		membershipChecksTotal,
		membershipCheckDuration,
		channelQueryFailuresTotal,
		debounceSuppressedTotal,
		telegramCommandsTotal,
		verificationLogErrorsTotal,
	)
}

var (
	membershipChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatebot_membership_checks_total",
			Help: "Completed membership checks, labeled by outcome.",
		},
		[]string{"outcome"}, // 'passed', 'failed'
	)

	membershipCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gatebot_membership_check_duration_seconds",
			Help:    "Wall time of a full fan-out membership check.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
	)

	channelQueryFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatebot_channel_query_failures_total",
			Help: "getChatMember calls that failed or timed out and were counted as not subscribed.",
		},
		[]string{"channel", "reason"}, // reason: 'error', 'timeout'
	)

	debounceSuppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatebot_debounce_suppressed_total",
			Help: "Triggers suppressed by a debounce guard.",
		},
		[]string{"trigger"},
	)

	telegramCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatebot_telegram_commands_total",
			Help: "Commands and callbacks received from users.",
		},
		[]string{"command"},
	)

	verificationLogErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gatebot_verification_log_errors_total",
			Help: "Verification results that could not be written to the log.",
		},
	)
)

// ObserveCheck records one completed membership check.
func ObserveCheck(allJoined bool, d time.Duration) {
	outcome := "failed"
	if allJoined {
		outcome = "passed"
	}
	membershipChecksTotal.WithLabelValues(outcome).Inc()
	membershipCheckDuration.Observe(d.Seconds())
}

// IncChannelQueryFailure counts a membership query folded to "not subscribed".
func IncChannelQueryFailure(channel, reason string) {
	channelQueryFailuresTotal.WithLabelValues(channel, norm(reason)).Inc()
}

// IncDebounceSuppressed counts a suppressed trigger.
func IncDebounceSuppressed(trigger string) {
	debounceSuppressedTotal.WithLabelValues(norm(trigger)).Inc()
}

// IncCommand counts an incoming command or callback.
func IncCommand(command string) {
	telegramCommandsTotal.WithLabelValues(norm(command)).Inc()
}

// IncVerificationLogError counts a failed verification log write.
func IncVerificationLogError() {
	verificationLogErrorsTotal.Inc()
}
