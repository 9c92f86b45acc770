package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultHeartbeatInterval is used when no interval is configured.
const DefaultHeartbeatInterval = 15 * time.Second

// Heartbeater pings push sessions and reaps the unresponsive ones.
type Heartbeater interface {
	Heartbeat(ctx context.Context) int
}

// HeartbeatJob pings every push session on a fixed interval.
type HeartbeatJob struct {
	registry Heartbeater
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewHeartbeatJob creates the job. Intervals below one second are rounded up
// by the scheduler.
func NewHeartbeatJob(registry Heartbeater, interval time.Duration, logger *slog.Logger) *HeartbeatJob {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &HeartbeatJob{
		registry: registry,
		interval: interval,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "heartbeat_job"),
	}
}

// Start schedules the heartbeat.
func (j *HeartbeatJob) Start() error {
	j.cron.Schedule(cron.Every(j.interval), cron.FuncJob(j.tick))
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Heartbeat job started", "interval", j.interval.String())
	return nil
}

func (j *HeartbeatJob) tick() {
	ctx := context.Background()
	if reaped := j.registry.Heartbeat(ctx); reaped > 0 {
		j.logger.WarnContext(ctx, "Unresponsive sessions reaped", "count", reaped)
	}
}

// Stop stops scheduling and waits for a running heartbeat to finish.
func (j *HeartbeatJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Heartbeat job stopped")
}
