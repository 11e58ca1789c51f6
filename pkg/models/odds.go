package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Game is one event as returned by the odds and scores endpoints
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
	Completed    bool        `json:"completed"`
	Scores       *Scores     `json:"scores"`
	LastUpdate   *string     `json:"last_update,omitempty"`
}

type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome keeps Price as the provider's literal number so decimal (1.91)
// and American (-150) formats print unchanged
type Outcome struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

// StartTime parses CommenceTime, which the provider sends as RFC 3339 with a Z suffix
func (g Game) StartTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, g.CommenceTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid commence_time %q: %w", g.CommenceTime, err)
	}
	return t, nil
}

// StartsOn reports whether the game's commence time falls on the given
// calendar date, formatted as YYYY-MM-DD
func (g Game) StartsOn(date string) bool {
	return date != "" && strings.HasPrefix(g.CommenceTime, date)
}

// HeadToHead returns the first bookmaker and its first market's outcomes.
// ok is false when the game carries fewer than two priced outcomes.
func (g Game) HeadToHead() (Bookmaker, []Outcome, bool) {
	if len(g.Bookmakers) == 0 {
		return Bookmaker{}, nil, false
	}
	book := g.Bookmakers[0]
	if len(book.Markets) == 0 || len(book.Markets[0].Outcomes) < 2 {
		return book, nil, false
	}
	return book, book.Markets[0].Outcomes, true
}

// FinalScore returns away and home totals. ok is false unless the game is
// completed and both totals are known.
func (g Game) FinalScore() (away, home string, ok bool) {
	if !g.Completed || g.Scores == nil {
		return "", "", false
	}
	away, home = g.Scores.resolve(g.AwayTeam, g.HomeTeam)
	if away == "" || home == "" {
		return "", "", false
	}
	return away, home, true
}

// TeamScore is one side's total
type TeamScore struct {
	Name  string     `json:"name,omitempty"`
	Total ScoreValue `json:"total"`
}

// Scores accepts both the keyed form {"home":{"total":..},"away":{"total":..}}
// and the provider's list form [{"name":..,"score":..}]
type Scores struct {
	Home    *TeamScore
	Away    *TeamScore
	Entries []TeamScore
}

func (s *Scores) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var list []struct {
			Name  string     `json:"name"`
			Score ScoreValue `json:"score"`
		}
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decode score list: %w", err)
		}
		for _, entry := range list {
			s.Entries = append(s.Entries, TeamScore{Name: entry.Name, Total: entry.Score})
		}
		return nil
	}

	var keyed struct {
		Home *TeamScore `json:"home"`
		Away *TeamScore `json:"away"`
	}
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return fmt.Errorf("decode score object: %w", err)
	}
	s.Home = keyed.Home
	s.Away = keyed.Away
	return nil
}

func (s *Scores) resolve(awayTeam, homeTeam string) (away, home string) {
	if s.Away != nil {
		away = string(s.Away.Total)
	}
	if s.Home != nil {
		home = string(s.Home.Total)
	}
	for _, entry := range s.Entries {
		switch entry.Name {
		case awayTeam:
			away = string(entry.Total)
		case homeTeam:
			home = string(entry.Total)
		}
	}
	return away, home
}

// ScoreValue holds a total that may arrive as a JSON number or string
type ScoreValue string

func (v *ScoreValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = ScoreValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("score total must be a number or string: %w", err)
	}
	*v = ScoreValue(n.String())
	return nil
}
