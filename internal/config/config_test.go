package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_TOKEN_SECRET",
		"ODDS_API_KEY", "ODDS_SPORT", "HTTP_TIMEOUT", "DRY_RUN", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Odds.Sport != "basketball_wnba" {
		t.Errorf("Expected sport basketball_wnba, got %s", cfg.Odds.Sport)
	}
	if cfg.Odds.Regions != "us" || cfg.Odds.Markets != "h2h" {
		t.Errorf("Expected us/h2h, got %s/%s", cfg.Odds.Regions, cfg.Odds.Markets)
	}
	if cfg.Timeout != 30 {
		t.Errorf("Expected timeout 30, got %d", cfg.Timeout)
	}
	if cfg.DryRun {
		t.Error("Expected DryRun to default to false")
	}
	if cfg.HasXCredentials() {
		t.Error("Expected no X credentials")
	}

	want := []string{"X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_TOKEN_SECRET", "ODDS_API_KEY"}
	if got := cfg.MissingKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("MissingKeys() = %v, want %v", got, want)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("X_API_KEY", "key")
	t.Setenv("X_API_SECRET", "secret")
	t.Setenv("X_ACCESS_TOKEN", "token")
	t.Setenv("X_ACCESS_TOKEN_SECRET", "token-secret")
	t.Setenv("ODDS_API_KEY", "odds")
	t.Setenv("HTTP_TIMEOUT", "5")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("ODDS_SCORES_DAYS_FROM", "not-a-number")

	cfg := Load()

	if !cfg.HasXCredentials() {
		t.Error("Expected X credentials to be present")
	}
	if len(cfg.MissingKeys()) != 0 {
		t.Errorf("Expected no missing keys, got %v", cfg.MissingKeys())
	}
	if cfg.Timeout != 5 {
		t.Errorf("Expected timeout 5, got %d", cfg.Timeout)
	}
	if !cfg.DryRun {
		t.Error("Expected DryRun to be true")
	}
	if cfg.Odds.ScoresDaysFrom != 1 {
		t.Errorf("Expected invalid int to fall back to 1, got %d", cfg.Odds.ScoresDaysFrom)
	}
}
