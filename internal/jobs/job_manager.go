package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// SessionMaintainer is the part of the session registry the jobs drive.
type SessionMaintainer interface {
	Heartbeater
	PollReaper
}

// JobManager owns the session maintenance jobs.
type JobManager struct {
	heartbeatJob  *HeartbeatJob
	pollReaperJob *PollSessionReaperJob
}

// NewJobManager schedules the heartbeat at heartbeatInterval and the poll reaper
// at its fixed cadence. Nothing runs until StartAll.
func NewJobManager(registry SessionMaintainer, heartbeatInterval time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		heartbeatJob:  NewHeartbeatJob(registry, heartbeatInterval, logger),
		pollReaperJob: NewPollSessionReaperJob(registry, logger),
	}
}

// StartAll starts both jobs. If the second fails the first is stopped again.
func (jm *JobManager) StartAll() error {
	if err := jm.heartbeatJob.Start(); err != nil {
		return fmt.Errorf("failed to start heartbeat job: %w", err)
	}

	if err := jm.pollReaperJob.Start(); err != nil {
		jm.heartbeatJob.Stop()
		return fmt.Errorf("failed to start poll session reaper job: %w", err)
	}

	return nil
}

// StopAll stops both jobs and waits for running rounds to finish.
func (jm *JobManager) StopAll() {
	jm.pollReaperJob.Stop()
	jm.heartbeatJob.Stop()
}
