package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PlayerStat is one player's line from a game box score
type PlayerStat struct {
	Name     string
	Team     string
	Points   int
	Rebounds int
}

// Leader is one row of the points-per-game leaderboard
type Leader struct {
	Rank   int
	Player string
	Team   string
	PPG    json.Number
}

// StatsResponse is the tabular envelope used by the stats provider. Box
// scores carry resultSets, league leaders carry a single resultSet.
type StatsResponse struct {
	Resource   string           `json:"resource"`
	ResultSets []StatsResultSet `json:"resultSets"`
	ResultSet  *StatsResultSet  `json:"resultSet"`
}

type StatsResultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// Set returns the named result set
func (r *StatsResponse) Set(name string) (*StatsResultSet, bool) {
	if r.ResultSet != nil && (name == "" || r.ResultSet.Name == name) {
		return r.ResultSet, true
	}
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], true
		}
	}
	return nil, false
}

// Rows turns the header/row table into one map per row
func (s *StatsResultSet) Rows() []StatsRow {
	rows := make([]StatsRow, 0, len(s.RowSet))
	for _, raw := range s.RowSet {
		row := make(StatsRow, len(s.Headers))
		for i, header := range s.Headers {
			if i < len(raw) {
				row[header] = raw[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

type StatsRow map[string]json.RawMessage

// String returns the first present column among keys as text
func (r StatsRow) String(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}
	return ""
}

// Number returns the first present column among keys as a JSON number
func (r StatsRow) Number(keys ...string) (json.Number, error) {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("column %s is not numeric: %w", key, err)
		}
		return n, nil
	}
	return "", fmt.Errorf("none of columns %v present", keys)
}

// Int returns the first present column among keys truncated to an int
func (r StatsRow) Int(keys ...string) (int, error) {
	n, err := r.Number(keys...)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
