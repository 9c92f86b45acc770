package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRegistry struct {
	heartbeats atomic.Int32
	reaps      atomic.Int32
	reaped     int
}

func (r *countingRegistry) Heartbeat(context.Context) int {
	r.heartbeats.Add(1)
	return r.reaped
}

func (r *countingRegistry) ReapIdlePolls() int {
	r.reaps.Add(1)
	return r.reaped
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHeartbeatJob_RunsOnInterval(t *testing.T) {
	registry := &countingRegistry{}
	job := NewHeartbeatJob(registry, time.Second, discardLogger())

	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool {
		return registry.heartbeats.Load() >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestHeartbeatJob_DefaultInterval(t *testing.T) {
	job := NewHeartbeatJob(&countingRegistry{}, 0, discardLogger())

	assert.Equal(t, DefaultHeartbeatInterval, job.interval)
}

func TestPollSessionReaperJob_Tick(t *testing.T) {
	registry := &countingRegistry{reaped: 2}
	job := NewPollSessionReaperJob(registry, discardLogger())

	job.tick()
	job.tick()

	assert.Equal(t, int32(2), registry.reaps.Load())
}

func TestJobManager_StartStop(t *testing.T) {
	registry := &countingRegistry{}
	manager := NewJobManager(registry, time.Second, discardLogger())

	require.NoError(t, manager.StartAll())
	assert.Eventually(t, func() bool {
		return registry.heartbeats.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)
	manager.StopAll()

	after := registry.heartbeats.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, registry.heartbeats.Load())
}
