package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

const LoggerKey contextKey = "logger"

type Logger struct {
	*zerolog.Logger
}

// New creates a new logger instance with service context
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "@timestamp"

	logger := zerolog.New(newWriter()).
		With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Str("environment", getEnv("ENVIRONMENT", "production")).
		Str("version", getEnv("SERVICE_VERSION", "unknown")).
		Logger()

	return &Logger{&logger}
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	logger := zerolog.Nop()
	return &Logger{&logger}
}

// WithContext returns the logger stored in ctx, or fallback when there is none
func WithContext(ctx context.Context, fallback *Logger) *Logger {
	if logger, ok := ctx.Value(LoggerKey).(*Logger); ok {
		return logger
	}
	return fallback
}

// ToContext adds logger to context
func (l *Logger) ToContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}

// WithRunID tags every line of one run with a correlation id
func (l *Logger) WithRunID(runID string) *Logger {
	logger := l.Logger.With().Str("run_id", runID).Logger()
	return &Logger{&logger}
}

// WithJob adds job context for cron jobs
func (l *Logger) WithJob(jobName string) *Logger {
	logger := l.Logger.With().
		Str("job_name", jobName).
		Str("job_type", "cron").
		Logger()
	return &Logger{&logger}
}

// WithGame adds game context
func (l *Logger) WithGame(gameID, awayTeam, homeTeam string) *Logger {
	logger := l.Logger.With().
		Str("game_id", gameID).
		Str("matchup", awayTeam+" @ "+homeTeam).
		Logger()
	return &Logger{&logger}
}

// LogAPICall logs external API calls
func (l *Logger) LogAPICall(method, url string, statusCode int, duration time.Duration, err error) {
	event := l.Info()
	if err != nil {
		event = l.Error().Err(err)
	}

	event.
		Str("action", "api_call").
		Str("method", method).
		Str("url", url).
		Int("status_code", statusCode).
		Dur("duration", duration).
		Bool("success", err == nil).
		Msg("External API call")
}

// LogFallback records that a fetch degraded to its fallback value
func (l *Logger) LogFallback(source string, err error) {
	l.Warn().
		Err(err).
		Str("action", "fetch_fallback").
		Str("source", source).
		Msg("Using fallback value")
}

// LogPost logs the outcome of a single post submission
func (l *Logger) LogPost(kind string, length int, status string, err error) {
	event := l.Info()
	if err != nil {
		event = l.Error().Err(err)
	}

	event.
		Str("action", "post").
		Str("post_kind", kind).
		Int("length", length).
		Str("status", status).
		Msg("Post submission")
}

// LogRunComplete logs the summary of one scheduler run
func (l *Logger) LogRunComplete(window string, duration time.Duration, published, failed, skipped, fallbacks int) {
	l.Info().
		Str("action", "run_complete").
		Str("window", window).
		Dur("duration", duration).
		Int("posts_published", published).
		Int("posts_failed", failed).
		Int("posts_skipped", skipped).
		Int("fallbacks", fallbacks).
		Bool("has_errors", failed > 0 || fallbacks > 0).
		Msg("Run completed")
}

// LogJobStart logs job execution start
func (l *Logger) LogJobStart(jobName string, schedule string) {
	l.Info().
		Str("action", "job_start").
		Str("job_name", jobName).
		Str("schedule", schedule).
		Msg("Starting job execution")
}

// Fatalf logs a fatal error and exits
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.Fatal().Msgf(format, args...)
}

// newWriter emits JSON by default and human-readable lines in development
func newWriter() io.Writer {
	if getEnv("ENVIRONMENT", "production") == "development" {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	return os.Stdout
}

// SetupLogger configures global log level from LOG_LEVEL. Without it,
// development runs at debug and everything else at info.
func SetupLogger() {
	zerolog.SetGlobalLevel(levelFromEnv())
}

func levelFromEnv() zerolog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	}
	if getEnv("ENVIRONMENT", "production") == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
