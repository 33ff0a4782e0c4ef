package jobs

import (
	"context"
	"log/slog"

	"freight/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule fires every 30 seconds.
const DefaultRefreshSchedule = "*/30 * * * * *"

// PoolRefreshJob periodically announces a pool-wide change so every live
// session re-pulls its snapshot, even if a change event was lost.
type PoolRefreshJob struct {
	publisher ports.ChangePublisher
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPoolRefreshJob creates the job. An empty schedule means DefaultRefreshSchedule.
func NewPoolRefreshJob(publisher ports.ChangePublisher, schedule string, logger *slog.Logger) *PoolRefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &PoolRefreshJob{
		publisher: publisher,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "pool_refresh_job"),
	}
}

// Start begins publishing ticks on the configured schedule.
func (j *PoolRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pool refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running tick to finish.
func (j *PoolRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pool refresh job stopped")
}

func (j *PoolRefreshJob) tick() {
	ctx := context.Background()
	if err := j.publisher.Publish(ctx, ports.ChangeEvent{Kind: ports.PoolChanged}); err != nil {
		j.logger.ErrorContext(ctx, "Pool refresh tick failed", "error", err)
	}
}
