package retry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomePermanent = "permanent"
	outcomeExhausted = "exhausted"
	outcomeCanceled  = "canceled"
)

var (
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_scraper_retry_attempts_total",
			Help: "Total number of calls made by the retry loop",
		},
		[]string{"operation"},
	)

	outcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_scraper_retry_outcomes_total",
			Help: "Total number of retry loops by final outcome",
		},
		[]string{"operation", "outcome"},
	)

	backoffSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twitter_scraper_retry_backoff_seconds",
			Help:    "Duration of backoff waits in seconds",
			Buckets: prometheus.ExponentialBuckets(2, 2, 10),
		},
		[]string{"operation"},
	)

	loopSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twitter_scraper_retry_duration_seconds",
			Help:    "Total duration of retry loops in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
)

func recordOutcome(operation, outcome string, start time.Time) {
	outcomesTotal.WithLabelValues(operation, outcome).Inc()
	loopSeconds.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
