// Package app wires configuration into the runner shared by both binaries.
package app

import (
	"context"

	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/database/pool"
	"github.com/hoopsline/wnba-updates/pkg/ledger"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/publisher"
	"github.com/hoopsline/wnba-updates/pkg/services"
	"github.com/hoopsline/wnba-updates/pkg/updates"
)

// Build constructs the runner and everything it depends on. The returned
// close func releases the database pool when one was opened.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*updates.Runner, func()) {
	if missing := cfg.MissingKeys(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("Required environment variables are not set")
	}

	statsClient := services.NewStatsClient(cfg, log)
	oddsClient := services.NewOddsClient(cfg, statsClient, log)

	var poster publisher.Poster
	switch {
	case cfg.DryRun:
		log.Info().Msg("DRY_RUN set, posts will only be logged")
		poster = publisher.NewLogPoster(log)
	case !cfg.HasXCredentials():
		log.Warn().Msg("X credentials incomplete, posts will only be logged")
		poster = publisher.NewLogPoster(log)
	default:
		poster = publisher.NewXPoster(cfg, log)
	}

	postLedger, closeFn := openLedger(ctx, cfg, log)
	pub := publisher.New(poster, postLedger, log)
	return updates.NewRunner(oddsClient, statsClient, pub, log), closeFn
}

// openLedger connects the post ledger when DATABASE_URL is set. An unreachable
// database downgrades to NopLedger so posting still happens.
func openLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (ledger.Ledger, func()) {
	if cfg.DatabaseURL == "" {
		return ledger.NopLedger{}, func() {}
	}

	db, err := pool.New(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		log.Warn().Err(err).Str("action", "ledger_unavailable").Msg("Post ledger unreachable, duplicate posts will not be skipped")
		return ledger.NopLedger{}, func() {}
	}

	pgLedger := ledger.NewPostgresLedger(db, log)
	if err := pgLedger.EnsureSchema(ctx); err != nil {
		db.Close()
		log.Warn().Err(err).Str("action", "ledger_unavailable").Msg("Post ledger schema setup failed, duplicate posts will not be skipped")
		return ledger.NopLedger{}, func() {}
	}

	log.Info().Msg("Post ledger enabled, duplicate posts will be skipped")
	return pgLedger, db.Close
}
