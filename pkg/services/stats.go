package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/format"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/models"
)

// StatsUnavailable is posted in place of the leaderboard when it cannot be fetched
const StatsUnavailable = "Player stats unavailable today."

const leaderboardSize = 10

// stats.wnba.com rejects requests that do not look like they come from the site
var statsHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Referer":    "https://www.wnba.com/",
	"Origin":     "https://www.wnba.com",
}

// StatsClient reads box scores and league leaders from the stats provider
type StatsClient struct {
	baseURL  string
	leagueID string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	now      func() time.Time
	logger   *logger.Logger
}

func NewStatsClient(cfg *config.Config, log *logger.Logger) *StatsClient {
	return &StatsClient{
		baseURL:  strings.TrimRight(cfg.Stats.BaseURL, "/"),
		leagueID: cfg.Stats.LeagueID,
		client:   newHTTPClient(cfg.Timeout),
		breaker:  newStatsBreaker(log),
		now:      time.Now,
		logger:   log,
	}
}

// newStatsBreaker opens after three straight failures so an evening with many
// games does not wait out the timeout once per game against a dead host
func newStatsBreaker(log *logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "stats",
		MaxRequests: 1,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("action", "breaker_state_change").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

func (c *StatsClient) fetch(ctx context.Context, endpoint string, params url.Values) (*models.StatsResponse, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var resp models.StatsResponse
		if err := getJSON(ctx, c.client, c.logger, c.baseURL+endpoint, params, statsHeaders, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("stats provider unavailable: %w", err)
		}
		return nil, err
	}
	return result.(*models.StatsResponse), nil
}

// BoxScore returns every player line of a game
func (c *StatsClient) BoxScore(ctx context.Context, gameID string) ([]models.PlayerStat, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")
	params.Set("StartRange", "0")
	params.Set("EndRange", "0")
	params.Set("RangeType", "0")

	resp, err := c.fetch(ctx, "/boxscoretraditionalv2", params)
	if err != nil {
		return nil, fmt.Errorf("fetch box score for game %s: %w", gameID, err)
	}

	set, ok := resp.Set("PlayerStats")
	if !ok {
		return nil, fmt.Errorf("box score for game %s has no PlayerStats", gameID)
	}

	rows := set.Rows()
	players := make([]models.PlayerStat, 0, len(rows))
	for _, row := range rows {
		// players who did not play have null counting stats
		pts, _ := row.Int("PTS")
		reb, _ := row.Int("REB")
		players = append(players, models.PlayerStat{
			Name:     row.String("NAME", "PLAYER_NAME"),
			Team:     row.String("TEAM", "TEAM_ABBREVIATION"),
			Points:   pts,
			Rebounds: reb,
		})
	}
	return players, nil
}

// TopScorers returns the n highest scorers of a game, ties kept in box score order
func (c *StatsClient) TopScorers(ctx context.Context, gameID string, n int) ([]models.PlayerStat, error) {
	players, err := c.BoxScore(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("box score for game %s lists no players", gameID)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Points > players[j].Points
	})
	if len(players) > n {
		players = players[:n]
	}
	return players, nil
}

// LeagueLeaders returns the current season's points-per-game leaders
func (c *StatsClient) LeagueLeaders(ctx context.Context) ([]models.Leader, error) {
	params := url.Values{}
	params.Set("LeagueID", c.leagueID)
	params.Set("PerMode", "PerGame")
	params.Set("Scope", "S")
	params.Set("Season", strconv.Itoa(c.now().UTC().Year()))
	params.Set("SeasonType", "Regular Season")
	params.Set("StatCategory", "PTS")

	resp, err := c.fetch(ctx, "/leagueleaders", params)
	if err != nil {
		return nil, fmt.Errorf("fetch league leaders: %w", err)
	}

	set, ok := resp.Set("")
	if !ok && len(resp.ResultSets) > 0 {
		set, ok = &resp.ResultSets[0], true
	}
	if !ok {
		return nil, fmt.Errorf("league leaders response has no result set")
	}

	rows := set.Rows()
	leaders := make([]models.Leader, 0, len(rows))
	for i, row := range rows {
		ppg, err := row.Number("PPG", "PTS")
		if err != nil {
			return nil, fmt.Errorf("leader row %d: %w", i+1, err)
		}
		rank, err := row.Int("RANK")
		if err != nil {
			rank = i + 1
		}
		leaders = append(leaders, models.Leader{
			Rank:   rank,
			Player: row.String("PLAYER", "PLAYER_NAME"),
			Team:   row.String("TEAM", "TEAM_ABBREVIATION"),
			PPG:    ppg,
		})
	}
	return leaders, nil
}

// FetchTopPlayers returns the top 10 scorers as leaderboard lines, or
// StatsUnavailable when the leaders cannot be fetched
func (c *StatsClient) FetchTopPlayers(ctx context.Context) Result[string] {
	leaders, err := c.LeagueLeaders(ctx)
	if err != nil {
		c.logger.LogFallback("league_leaders", err)
		return Fallback(StatsUnavailable, err)
	}
	if len(leaders) == 0 {
		err := errors.New("league leaders list is empty")
		c.logger.LogFallback("league_leaders", err)
		return Fallback(StatsUnavailable, err)
	}
	if len(leaders) > leaderboardSize {
		leaders = leaders[:leaderboardSize]
	}
	return Success(format.Leaderboard(leaders))
}
