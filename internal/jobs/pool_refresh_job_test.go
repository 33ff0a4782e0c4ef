package jobs_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"freight/internal/core/ports"
	"freight/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPublisher) first() ports.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[0]
}

func TestPoolRefreshJob_PublishesPoolTicks(t *testing.T) {
	publisher := &recordingPublisher{}
	job := jobs.NewPoolRefreshJob(publisher, "* * * * * *", slog.Default())

	require.NoError(t, job.Start())
	defer job.Stop()

	require.Eventually(t, func() bool { return publisher.count() > 0 }, 3*time.Second, 20*time.Millisecond)
	event := publisher.first()
	assert.Equal(t, ports.PoolChanged, event.Kind)
	assert.Error(t, event.EntityID.Validate())
}

func TestPoolRefreshJob_KeepsTickingAfterPublishError(t *testing.T) {
	publisher := &recordingPublisher{err: assert.AnError}
	job := jobs.NewPoolRefreshJob(publisher, "* * * * * *", slog.Default())

	require.NoError(t, job.Start())
	defer job.Stop()

	require.Eventually(t, func() bool { return publisher.count() >= 2 }, 4*time.Second, 20*time.Millisecond)
}

func TestPoolRefreshJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewPoolRefreshJob(&recordingPublisher{}, "every now and then", slog.Default())

	assert.Error(t, job.Start())
}

func TestJobManager_StartAllFailsOnInvalidSchedule(t *testing.T) {
	manager := jobs.NewJobManager(&recordingPublisher{}, "61 * * * * *", &recordingEvictor{}, 0, slog.Default())

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool refresh job")
}

func TestJobManager_StopAllStopsTicks(t *testing.T) {
	publisher := &recordingPublisher{}
	manager := jobs.NewJobManager(publisher, "* * * * * *", &recordingEvictor{}, time.Minute, slog.Default())

	require.NoError(t, manager.StartAll())
	require.Eventually(t, func() bool { return publisher.count() > 0 }, 3*time.Second, 20*time.Millisecond)
	manager.StopAll()

	stopped := publisher.count()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, publisher.count())
}
