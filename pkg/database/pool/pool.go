package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config represents database connection pool settings
type Config struct {
	// MaxConns is the maximum number of connections in the pool
	MaxConns int32
	// MinConns is the minimum number of connections in the pool
	MinConns int32
	// MaxConnIdleTime is the maximum idle time for a connection
	MaxConnIdleTime time.Duration
	// ConnectTimeout is the timeout for establishing new connections
	ConnectTimeout time.Duration
	// StatementTimeout bounds every ledger statement
	StatementTimeout time.Duration
}

// DefaultConfig sizes the pool for the post ledger: a handful of short
// statements per run, posts written one at a time
func DefaultConfig() *Config {
	return &Config{
		MaxConns:         4,
		MinConns:         0,
		MaxConnIdleTime:  5 * time.Minute,
		ConnectTimeout:   10 * time.Second,
		StatementTimeout: 15 * time.Second,
	}
}

// New creates a new database connection pool and verifies it with a ping
func New(ctx context.Context, databaseURL string, cfg *Config) (*pgxpool.Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnIdleTime = cfg.MaxConnIdleTime
	config.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	config.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	config.ConnConfig.RuntimeParams["application_name"] = "wnba-updates"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
