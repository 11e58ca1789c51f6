package jobs

import (
	"context"
	"fmt"

	"github.com/hoopsline/wnba-updates/pkg/updates"
)

// Runner is the single pass the updates job triggers
type Runner interface {
	Run(ctx context.Context) updates.Report
}

// UpdatesJob fires the updates runner on a schedule. The runner itself
// decides what to post from the hour it runs at, so one job per window is
// enough.
type UpdatesJob struct {
	name     string
	schedule string
	runner   Runner
}

// NewUpdatesJob creates a job named after the window it is meant to hit
func NewUpdatesJob(window updates.Window, schedule string, runner Runner) Job {
	return &UpdatesJob{
		name:     fmt.Sprintf("%s_updates", window),
		schedule: schedule,
		runner:   runner,
	}
}

func (j *UpdatesJob) Execute(ctx context.Context) error {
	if j.runner == nil {
		return fmt.Errorf("updates runner is not initialized")
	}

	report := j.runner.Run(ctx)
	if report.Window == updates.WindowIdle {
		return fmt.Errorf("job %s ran outside every posting window, check its schedule", j.name)
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d posts failed", failed, len(report.Outcomes))
	}
	return nil
}

func (j *UpdatesJob) Name() string {
	return j.name
}

func (j *UpdatesJob) Schedule() string {
	return j.schedule
}
