package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/models"
)

// PerformersUnavailable stands in for top scorers when the box score cannot be read
const PerformersUnavailable = "Top performers unavailable."

// TopScorerFetcher supplies the highest scorers of a finished game
type TopScorerFetcher interface {
	TopScorers(ctx context.Context, gameID string, n int) ([]models.PlayerStat, error)
}

// OddsClient reads schedules, prices and final scores from The Odds API
type OddsClient struct {
	baseURL  string
	apiKey   string
	sport    string
	regions  string
	markets  string
	daysFrom int
	client   *http.Client
	stats    TopScorerFetcher
	now      func() time.Time
	logger   *logger.Logger
}

func NewOddsClient(cfg *config.Config, stats TopScorerFetcher, log *logger.Logger) *OddsClient {
	return &OddsClient{
		baseURL:  strings.TrimRight(cfg.Odds.BaseURL, "/"),
		apiKey:   cfg.Odds.APIKey,
		sport:    cfg.Odds.Sport,
		regions:  cfg.Odds.Regions,
		markets:  cfg.Odds.Markets,
		daysFrom: cfg.Odds.ScoresDaysFrom,
		client:   newHTTPClient(cfg.Timeout),
		stats:    stats,
		now:      time.Now,
		logger:   log,
	}
}

// GetOdds returns every listed game with its bookmaker prices
func (c *OddsClient) GetOdds(ctx context.Context) ([]models.Game, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", c.baseURL, c.sport)
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", c.markets)

	var games []models.Game
	if err := getJSON(ctx, c.client, c.logger, endpoint, params, nil, &games); err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	return games, nil
}

// GetScores returns live, upcoming and recently completed games with scores
func (c *OddsClient) GetScores(ctx context.Context) ([]models.Game, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/scores", c.baseURL, c.sport)
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	if c.daysFrom > 0 {
		params.Set("daysFrom", strconv.Itoa(c.daysFrom))
	}

	var games []models.Game
	if err := getJSON(ctx, c.client, c.logger, endpoint, params, nil, &games); err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	return games, nil
}

// FetchTodayGames returns the games commencing on the current UTC date in
// provider order. Any failure falls back to an empty list.
func (c *OddsClient) FetchTodayGames(ctx context.Context) Result[[]models.Game] {
	games, err := c.GetOdds(ctx)
	if err != nil {
		c.logger.LogFallback("odds", err)
		return Fallback([]models.Game{}, err)
	}

	today := c.now().UTC().Format("2006-01-02")
	todays := make([]models.Game, 0, len(games))
	for _, game := range games {
		if game.StartsOn(today) {
			todays = append(todays, game)
		}
	}

	c.logger.Debug().
		Str("action", "filter_games").
		Str("date", today).
		Int("listed", len(games)).
		Int("today", len(todays)).
		Msg("Filtered games to today")

	return Success(todays)
}

// FetchGameSummary returns the final score of a completed game with its top
// two scorers. The value is nil when the game is missing, unfinished, or the
// scores call fails; only the last case sets Err.
func (c *OddsClient) FetchGameSummary(ctx context.Context, gameID string) Result[*models.GameSummary] {
	games, err := c.GetScores(ctx)
	if err != nil {
		c.logger.LogFallback("scores", err)
		return Fallback[*models.GameSummary](nil, fmt.Errorf("summary for game %s: %w", gameID, err))
	}

	var game *models.Game
	for i := range games {
		if games[i].ID == gameID {
			game = &games[i]
			break
		}
	}
	if game == nil {
		c.logger.Debug().Str("game_id", gameID).Msg("Game not found in scores")
		return Success[*models.GameSummary](nil)
	}

	away, home, ok := game.FinalScore()
	if !ok {
		c.logger.Debug().Str("game_id", gameID).Bool("completed", game.Completed).Msg("Game has no final score yet")
		return Success[*models.GameSummary](nil)
	}

	summary := &models.GameSummary{
		Game:      *game,
		AwayScore: away,
		HomeScore: home,
	}

	if c.stats == nil {
		summary.PerformersErr = fmt.Errorf("stats client not configured")
	} else if top, err := c.stats.TopScorers(ctx, gameID, 2); err != nil {
		c.logger.WithGame(game.ID, game.AwayTeam, game.HomeTeam).LogFallback("box_score", err)
		summary.PerformersErr = err
	} else {
		summary.TopPerformers = top
	}

	return Success(summary)
}
