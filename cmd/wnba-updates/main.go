package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hoopsline/wnba-updates/internal/app"
	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/metrics"
)

// One pass: fetch, branch on the UTC hour, post. Meant to be triggered
// externally around 08:00 and 23:00 UTC.
func main() {
	logger.SetupLogger()
	cfg := config.Load()
	log := logger.New("wnba-updates").WithRunID(uuid.New().String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	runner, closeFn := app.Build(ctx, cfg, log)
	defer closeFn()

	report := runner.Run(ctx)

	if err := metrics.Push(cfg.Metrics.PushgatewayURL, "wnba_updates"); err != nil {
		log.Warn().Err(err).Msg("Failed to push metrics")
	}

	log.Info().
		Str("window", string(report.Window)).
		Int("games_today", report.Games).
		Int("posts", len(report.Outcomes)).
		Msg("Done")
}
