package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoopsline/wnba-updates/internal/app"
	"github.com/hoopsline/wnba-updates/internal/config"
	"github.com/hoopsline/wnba-updates/pkg/jobs"
	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/server"
	"github.com/hoopsline/wnba-updates/pkg/updates"
)

func main() {
	logger.SetupLogger()
	cfg := config.Load()
	log := logger.New("wnba-updates-cron")

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	runner, closeFn := app.Build(startCtx, cfg, log)
	cancel()
	defer closeFn()

	jobManager := jobs.NewJobManager(log)

	morningJob := jobs.NewUpdatesJob(updates.WindowMorning, cfg.Schedule.Morning, runner)
	if err := jobManager.RegisterJob(morningJob); err != nil {
		log.Fatalf("Failed to register morning job: %v", err)
	}

	eveningJob := jobs.NewUpdatesJob(updates.WindowEvening, cfg.Schedule.Evening, runner)
	if err := jobManager.RegisterJob(eveningJob); err != nil {
		log.Fatalf("Failed to register evening job: %v", err)
	}

	metricsServer := server.New(cfg.Metrics.Port, func() []string {
		registered := jobManager.GetJobs()
		names := make([]string, 0, len(registered))
		for _, job := range registered {
			names = append(names, job.Name())
		}
		return names
	}, log)
	go func() {
		if err := metricsServer.Start(); err != nil {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	jobManager.Start()
	log.Info().Int("jobs", len(jobManager.GetJobs())).Msg("Cron job service started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down cron job service...")
	jobManager.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown failed")
	}
	log.Info().Msg("Cron job service stopped")
}
