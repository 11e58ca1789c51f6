package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hoopsline/wnba-updates/pkg/logger"
)

// Ledger remembers which posts went out so a repeated invocation inside the
// same window does not post them twice
type Ledger interface {
	// Claim reserves key. It returns false when key was already claimed.
	Claim(ctx context.Context, key, body string) (bool, error)

	// Release drops a claim whose post could not be submitted
	Release(ctx context.Context, key string) error
}

// DBTX is the subset of pgx used by the ledger; *pgxpool.Pool satisfies it
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// Key builds the dedup key for a post, e.g. "2025-06-05-game-summary-e912304d"
func Key(day time.Time, kind, ref string) string {
	// slug keeps underscores, metric-style kinds read better hyphenated
	parts := []string{day.UTC().Format("2006-01-02"), strings.ReplaceAll(kind, "_", " ")}
	if ref != "" {
		parts = append(parts, ref)
	}
	return slug.Make(strings.Join(parts, " "))
}

// NopLedger claims every key; runs without a database post every time
type NopLedger struct{}

func (NopLedger) Claim(ctx context.Context, key, body string) (bool, error) { return true, nil }

func (NopLedger) Release(ctx context.Context, key string) error { return nil }

const schema = `CREATE TABLE IF NOT EXISTS posted_updates (
	post_key  TEXT PRIMARY KEY,
	body      TEXT NOT NULL,
	posted_at TIMESTAMPTZ NOT NULL
)`

// PostgresLedger stores claims in the posted_updates table
type PostgresLedger struct {
	db     DBTX
	logger *logger.Logger
	now    func() time.Time
}

func NewPostgresLedger(db DBTX, log *logger.Logger) *PostgresLedger {
	return &PostgresLedger{
		db:     db,
		logger: log,
		now:    time.Now,
	}
}

// EnsureSchema creates the ledger table when missing
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create posted_updates table: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Claim(ctx context.Context, key, body string) (bool, error) {
	tag, err := l.db.Exec(ctx,
		"INSERT INTO posted_updates (post_key, body, posted_at) VALUES ($1, $2, $3) ON CONFLICT (post_key) DO NOTHING",
		key, body, l.now().UTC())
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("post_key", key).
			Str("action", "claim_failed").
			Msg("Failed to claim post key")
		return false, fmt.Errorf("claim post %s: %w", key, err)
	}

	claimed := tag.RowsAffected() == 1
	l.logger.Debug().
		Str("post_key", key).
		Bool("claimed", claimed).
		Str("action", "claim").
		Msg("Post key claim")
	return claimed, nil
}

func (l *PostgresLedger) Release(ctx context.Context, key string) error {
	if _, err := l.db.Exec(ctx, "DELETE FROM posted_updates WHERE post_key = $1", key); err != nil {
		return fmt.Errorf("release post %s: %w", key, err)
	}
	return nil
}
