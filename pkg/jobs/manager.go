package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/hoopsline/wnba-updates/pkg/logger"
)

type cronJobManager struct {
	cron    *cron.Cron
	jobs    []Job
	logger  *logger.Logger
	timeout time.Duration
}

// NewJobManager creates a new job manager; schedules are read in UTC
func NewJobManager(log *logger.Logger) JobManager {
	return &cronJobManager{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		jobs:    make([]Job, 0),
		logger:  log,
		timeout: 10 * time.Minute,
	}
}

func (m *cronJobManager) RegisterJob(job Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	m.logger.Info().
		Str("action", "register_job").
		Str("job_name", job.Name()).
		Str("schedule", job.Schedule()).
		Msg("Registering job")

	_, err := m.cron.AddFunc(job.Schedule(), func() {
		m.run(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	m.jobs = append(m.jobs, job)
	return nil
}

// run executes one scheduled invocation with a run-scoped logger in ctx
func (m *cronJobManager) run(job Job) {
	jobLogger := m.logger.WithRunID(uuid.New().String()).WithJob(job.Name())

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	ctx = jobLogger.ToContext(ctx)

	jobLogger.LogJobStart(job.Name(), job.Schedule())
	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		jobLogger.Error().
			Err(err).
			Str("action", "job_failed").
			Dur("duration", time.Since(start)).
			Msg("Job execution failed")
		return
	}

	jobLogger.Info().
		Str("action", "job_complete").
		Dur("duration", time.Since(start)).
		Msg("Job execution completed")
}

func (m *cronJobManager) Start() {
	m.logger.Info().Int("jobs", len(m.jobs)).Msg("Starting job manager")
	m.cron.Start()
}

func (m *cronJobManager) Stop() {
	m.logger.Info().Msg("Stopping job manager...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info().Msg("Job manager stopped")
}

func (m *cronJobManager) GetJobs() []Job {
	return append([]Job(nil), m.jobs...)
}
