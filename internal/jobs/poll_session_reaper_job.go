package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// PollReaper removes idle poll sessions.
type PollReaper interface {
	ReapIdlePolls() int
}

// PollSessionReaperJob removes poll sessions whose console stopped polling.
// Runs every 30 seconds.
type PollSessionReaperJob struct {
	registry PollReaper
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPollSessionReaperJob creates a new reaper job.
func NewPollSessionReaperJob(registry PollReaper, logger *slog.Logger) *PollSessionReaperJob {
	return &PollSessionReaperJob{
		registry: registry,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "poll_session_reaper_job"),
	}
}

// Start begins reaping every 30 seconds.
func (j *PollSessionReaperJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Poll session reaper job started (running every 30 seconds)")
	return nil
}

func (j *PollSessionReaperJob) tick() {
	if reaped := j.registry.ReapIdlePolls(); reaped > 0 {
		j.logger.InfoContext(context.Background(), "Idle poll sessions removed", "count", reaped)
	}
}

// Stop stops the reaper job.
func (j *PollSessionReaperJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Poll session reaper job stopped")
}
