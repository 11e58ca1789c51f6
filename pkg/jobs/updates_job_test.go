package jobs

import (
	"context"
	"testing"

	"github.com/hoopsline/wnba-updates/pkg/publisher"
	"github.com/hoopsline/wnba-updates/pkg/updates"
)

type stubRunner struct {
	report updates.Report
	calls  int
}

func (s *stubRunner) Run(ctx context.Context) updates.Report {
	s.calls++
	return s.report
}

func TestUpdatesJob_NameAndSchedule(t *testing.T) {
	job := NewUpdatesJob(updates.WindowMorning, "0 8 * * *", &stubRunner{})

	if got := job.Name(); got != "morning_updates" {
		t.Errorf("Name() = %v, want morning_updates", got)
	}
	if got := job.Schedule(); got != "0 8 * * *" {
		t.Errorf("Schedule() = %v, want 0 8 * * *", got)
	}
}

func TestUpdatesJob_Execute(t *testing.T) {
	tests := []struct {
		name    string
		report  updates.Report
		wantErr bool
	}{
		{
			name: "all published",
			report: updates.Report{Window: updates.WindowEvening, Outcomes: []publisher.Outcome{
				{Status: publisher.StatusPublished}, {Status: publisher.StatusSkipped},
			}},
		},
		{
			name: "some failed",
			report: updates.Report{Window: updates.WindowEvening, Outcomes: []publisher.Outcome{
				{Status: publisher.StatusPublished}, {Status: publisher.StatusFailed},
			}},
			wantErr: true,
		},
		{
			name:    "fired outside windows",
			report:  updates.Report{Window: updates.WindowIdle},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{report: tt.report}
			job := NewUpdatesJob(updates.WindowEvening, "0 23 * * *", runner)

			err := job.Execute(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if runner.calls != 1 {
				t.Errorf("Expected one run, got %d", runner.calls)
			}
		})
	}
}

func TestUpdatesJob_ExecuteWithoutRunner(t *testing.T) {
	job := &UpdatesJob{name: "morning_updates"}
	if err := job.Execute(context.Background()); err == nil {
		t.Error("Expected error when runner is missing")
	}
}
