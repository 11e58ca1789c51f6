package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// Post metrics
	PostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wnba_updates_posts_total",
			Help: "Total number of posts handled",
		},
		[]string{"kind", "status"}, // morning_odds/no_games/game_summary/leaderboard, published/failed/skipped
	)

	PostsTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wnba_updates_posts_truncated_total",
			Help: "Total number of posts shortened to the platform limit",
		},
	)

	// Fetch metrics
	FetchFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wnba_updates_fetch_fallbacks_total",
			Help: "Total number of fetches that degraded to a fallback value",
		},
		[]string{"source"}, // odds, scores, league_leaders
	)

	// Run metrics
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wnba_updates_runs_total",
			Help: "Total number of scheduler runs",
		},
		[]string{"window"}, // morning, evening, idle
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wnba_updates_run_duration_seconds",
			Help:    "Duration of a scheduler run",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wnba_updates_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
	)
)

// Push sends the default registry to a Pushgateway. Short-lived runs use this
// since nothing scrapes them.
func Push(gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
