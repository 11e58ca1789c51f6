package models

// GameSummary is a completed game's final score plus its best-effort top scorers
type GameSummary struct {
	Game      Game
	AwayScore string
	HomeScore string

	// TopPerformers is empty and PerformersErr set when the box score could not be read
	TopPerformers []PlayerStat
	PerformersErr error
}
