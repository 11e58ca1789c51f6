package updates

import (
	"context"
	"time"

	"github.com/hoopsline/wnba-updates/pkg/format"
	"github.com/hoopsline/wnba-updates/pkg/ledger"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/metrics"
	"github.com/hoopsline/wnba-updates/pkg/models"
	"github.com/hoopsline/wnba-updates/pkg/publisher"
	"github.com/hoopsline/wnba-updates/pkg/services"
)

// Post kinds, also used as metric labels
const (
	KindMorningOdds = "morning_odds"
	KindNoGames     = "no_games"
	KindGameSummary = "game_summary"
	KindLeaderboard = "leaderboard"
)

type GameSource interface {
	FetchTodayGames(ctx context.Context) services.Result[[]models.Game]
	FetchGameSummary(ctx context.Context, gameID string) services.Result[*models.GameSummary]
}

type LeaderSource interface {
	FetchTopPlayers(ctx context.Context) services.Result[string]
}

type Publisher interface {
	Publish(ctx context.Context, post publisher.Post) publisher.Outcome
}

// Report summarizes one run
type Report struct {
	Window    Window
	Games     int
	Fallbacks int
	Outcomes  []publisher.Outcome
}

func (r Report) count(status publisher.Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r Report) Published() int { return r.count(publisher.StatusPublished) }
func (r Report) Failed() int    { return r.count(publisher.StatusFailed) }
func (r Report) Skipped() int   { return r.count(publisher.StatusSkipped) }

// Runner performs one fetch-format-post pass for the current time of day
type Runner struct {
	games     GameSource
	leaders   LeaderSource
	publisher Publisher
	location  *time.Location
	now       func() time.Time
	logger    *logger.Logger
}

func NewRunner(games GameSource, leaders LeaderSource, pub Publisher, log *logger.Logger) *Runner {
	return &Runner{
		games:     games,
		leaders:   leaders,
		publisher: pub,
		location:  format.Eastern,
		now:       time.Now,
		logger:    log,
	}
}

// Run fetches today's games, then posts according to the current UTC hour:
// the games with odds in the morning window, results or the scoring
// leaderboard in the evening window, nothing otherwise. Failures never
// abort the run; they show up in the Report.
func (r *Runner) Run(ctx context.Context) Report {
	start := r.now()
	// the cron manager puts a run-scoped logger in ctx
	log := logger.WithContext(ctx, r.logger)

	var report Report
	gamesResult := r.games.FetchTodayGames(ctx)
	if gamesResult.IsFallback() {
		report.Fallbacks++
		metrics.FetchFallbacks.WithLabelValues("odds").Inc()
	}
	games := gamesResult.Value
	report.Games = len(games)

	report.Window = WindowAt(start)
	log.Info().
		Str("action", "run_start").
		Str("window", string(report.Window)).
		Int("utc_hour", start.UTC().Hour()).
		Int("games_today", len(games)).
		Msg("Starting run")

	switch report.Window {
	case WindowMorning:
		r.morning(ctx, start, games, &report)
	case WindowEvening:
		r.evening(ctx, start, games, &report)
	}

	duration := r.now().Sub(start)
	metrics.Runs.WithLabelValues(string(report.Window)).Inc()
	metrics.RunDuration.Observe(duration.Seconds())
	metrics.LastRunTimestamp.SetToCurrentTime()
	log.LogRunComplete(string(report.Window), duration, report.Published(), report.Failed(), report.Skipped(), report.Fallbacks)

	return report
}

func (r *Runner) morning(ctx context.Context, day time.Time, games []models.Game, report *Report) {
	if len(games) == 0 {
		r.publish(ctx, report, publisher.Post{
			Kind: KindNoGames,
			Key:  ledger.Key(day, KindNoGames, ""),
			Text: format.NoGamesMorning(),
		})
		return
	}

	r.publish(ctx, report, publisher.Post{
		Kind: KindMorningOdds,
		Key:  ledger.Key(day, KindMorningOdds, ""),
		Text: format.MorningGames(games, r.location),
	})
}

func (r *Runner) evening(ctx context.Context, day time.Time, games []models.Game, report *Report) {
	if len(games) == 0 {
		stats := r.leaders.FetchTopPlayers(ctx)
		if stats.IsFallback() {
			report.Fallbacks++
			metrics.FetchFallbacks.WithLabelValues("league_leaders").Inc()
		}
		r.publish(ctx, report, publisher.Post{
			Kind: KindLeaderboard,
			Key:  ledger.Key(day, KindLeaderboard, ""),
			Text: format.LeaderboardPost(stats.Value),
		})
		return
	}

	for _, game := range games {
		result := r.games.FetchGameSummary(ctx, game.ID)
		if result.IsFallback() {
			report.Fallbacks++
			metrics.FetchFallbacks.WithLabelValues("scores").Inc()
		}
		if result.Value == nil {
			continue
		}
		if result.Value.PerformersErr != nil {
			report.Fallbacks++
			metrics.FetchFallbacks.WithLabelValues("box_score").Inc()
		}

		summary := format.GameSummary(result.Value, services.PerformersUnavailable)
		r.publish(ctx, report, publisher.Post{
			Kind: KindGameSummary,
			Key:  ledger.Key(day, KindGameSummary, game.ID),
			Text: format.SummaryPost(summary),
		})
	}
}

func (r *Runner) publish(ctx context.Context, report *Report, post publisher.Post) {
	report.Outcomes = append(report.Outcomes, r.publisher.Publish(ctx, post))
}
