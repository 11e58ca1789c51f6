// Package format renders provider data as post text. Every function is pure.
package format

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/hoopsline/wnba-updates/pkg/models"
)

const (
	OddsTags    = "#WNBA #BettingOdds"
	SummaryTags = "#WNBA #GameSummary"
	StatsTags   = "#WNBA #PlayerStats"
)

// Eastern is the zone game times are shown in
var Eastern = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// MorningGames lists every game with its start time and head-to-head odds
func MorningGames(games []models.Game, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🏀 Today's WNBA Games:\n")
	for _, game := range games {
		fmt.Fprintf(&b, "- %s @ %s, %s\n", game.AwayTeam, game.HomeTeam, StartTime(game, loc))
		b.WriteString(OddsLine(game))
		b.WriteString("\n")
	}
	b.WriteString(OddsTags)
	return b.String()
}

// NoGamesMorning is posted in the morning window when nothing is scheduled
func NoGamesMorning() string {
	return "🏀 No WNBA games today. Check out top player stats tonight! #WNBA"
}

// StartTime renders the commence time as "07:30 PM ET"; unparseable times
// are passed through unchanged
func StartTime(game models.Game, loc *time.Location) string {
	start, err := game.StartTime()
	if err != nil {
		return game.CommenceTime
	}
	if loc == nil {
		loc = Eastern
	}
	return start.In(loc).Format("03:04 PM") + " ET"
}

// OddsLine renders the first bookmaker's first two outcomes
func OddsLine(game models.Game) string {
	book, outcomes, ok := game.HeadToHead()
	if !ok {
		return "  Odds: unavailable"
	}
	return fmt.Sprintf("  Odds: %s %s, %s %s (via %s)",
		outcomes[0].Name, outcomes[0].Price,
		outcomes[1].Name, outcomes[1].Price,
		book.Title)
}

// Performers renders one line per top scorer
func Performers(players []models.PlayerStat) string {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		lines = append(lines, fmt.Sprintf("- %s (%s): %d pts, %d reb", p.Name, p.Team, p.Points, p.Rebounds))
	}
	return strings.Join(lines, "\n")
}

// GameSummary renders the final score and top performers of a game.
// unavailable replaces the performer lines when they could not be fetched.
func GameSummary(summary *models.GameSummary, unavailable string) string {
	performers := unavailable
	if summary.PerformersErr == nil && len(summary.TopPerformers) > 0 {
		performers = Performers(summary.TopPerformers)
	}
	return fmt.Sprintf("%s %s - %s %s\nTop Performers:\n%s",
		summary.Game.AwayTeam, summary.AwayScore,
		summary.Game.HomeTeam, summary.HomeScore,
		performers)
}

// SummaryPost wraps a rendered game summary for posting
func SummaryPost(summary string) string {
	return "🏀 Game Summary:\n" + summary + "\n" + SummaryTags
}

// Leaderboard renders leaders as numbered lines in the order given
func Leaderboard(leaders []models.Leader) string {
	lines := make([]string, 0, len(leaders))
	for i, l := range leaders {
		lines = append(lines, fmt.Sprintf("%d. %s (%s): %s PPG", i+1, l.Player, l.Team, l.PPG))
	}
	return strings.Join(lines, "\n")
}

// LeaderboardPost wraps the leaderboard (or its placeholder) for posting
func LeaderboardPost(stats string) string {
	return "🏀 No games today. Top 10 Scorers:\n" + stats + "\n" + StatsTags
}
