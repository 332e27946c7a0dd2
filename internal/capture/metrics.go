package capture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_scraper_capture_runs_total",
			Help: "Total number of capture runs by status",
		},
		[]string{"status"},
	)

	recordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "twitter_scraper_records_total",
			Help: "Total number of normalized records emitted",
		},
	)

	checkpointGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "twitter_scraper_checkpoint_id",
			Help: "Tweet id of the current checkpoint",
		},
	)
)
