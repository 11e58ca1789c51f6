package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	X        XConfig
	Odds     OddsConfig
	Stats    StatsConfig
	Schedule ScheduleConfig
	Metrics  MetricsConfig

	// Timeout is the HTTP client timeout in seconds for every external call
	Timeout     int
	DryRun      bool
	DatabaseURL string
}

// XConfig holds the OAuth 1.0a user-context credentials for posting
type XConfig struct {
	BaseURL           string
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

type OddsConfig struct {
	BaseURL        string
	APIKey         string
	Sport          string
	Regions        string
	Markets        string
	ScoresDaysFrom int
}

type StatsConfig struct {
	BaseURL  string
	LeagueID string
}

type ScheduleConfig struct {
	Morning string
	Evening string
}

type MetricsConfig struct {
	Port           string
	PushgatewayURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		X: XConfig{
			BaseURL:           getEnv("X_API_URL", "https://api.twitter.com"),
			APIKey:            getEnv("X_API_KEY", ""),
			APISecret:         getEnv("X_API_SECRET", ""),
			AccessToken:       getEnv("X_ACCESS_TOKEN", ""),
			AccessTokenSecret: getEnv("X_ACCESS_TOKEN_SECRET", ""),
		},
		Odds: OddsConfig{
			BaseURL:        getEnv("ODDS_API_URL", "https://api.the-odds-api.com/v4"),
			APIKey:         getEnv("ODDS_API_KEY", ""),
			Sport:          getEnv("ODDS_SPORT", "basketball_wnba"),
			Regions:        getEnv("ODDS_REGIONS", "us"),
			Markets:        getEnv("ODDS_MARKETS", "h2h"),
			ScoresDaysFrom: getEnvAsInt("ODDS_SCORES_DAYS_FROM", 1),
		},
		Stats: StatsConfig{
			BaseURL:  getEnv("STATS_API_URL", "https://stats.wnba.com/stats"),
			LeagueID: getEnv("STATS_LEAGUE_ID", "10"),
		},
		Schedule: ScheduleConfig{
			Morning: getEnv("MORNING_SCHEDULE", "0 8 * * *"),
			Evening: getEnv("EVENING_SCHEDULE", "0 23 * * *"),
		},
		Metrics: MetricsConfig{
			Port:           getEnv("METRICS_PORT", "9090"),
			PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		},
		Timeout:     getEnvAsInt("HTTP_TIMEOUT", 30),
		DryRun:      getEnvAsBool("DRY_RUN", false),
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}
}

// HasXCredentials reports whether all four posting credentials are set
func (c *Config) HasXCredentials() bool {
	return c.X.APIKey != "" && c.X.APISecret != "" &&
		c.X.AccessToken != "" && c.X.AccessTokenSecret != ""
}

// MissingKeys lists the required environment variables that are empty
func (c *Config) MissingKeys() []string {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"X_API_KEY", c.X.APIKey},
		{"X_API_SECRET", c.X.APISecret},
		{"X_ACCESS_TOKEN", c.X.AccessToken},
		{"X_ACCESS_TOKEN_SECRET", c.X.AccessTokenSecret},
		{"ODDS_API_KEY", c.Odds.APIKey},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
