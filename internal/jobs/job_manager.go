package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	poolRefreshJob     *PoolRefreshJob
	sessionEvictionJob *SessionEvictionJob
}

// NewJobManager creates a job manager. Ticks go to publisher, which is the
// in-process hub so only sessions of this process are refreshed. Sessions
// unused for idleTimeout are evicted from sessions once a minute.
func NewJobManager(
	publisher ports.ChangePublisher,
	refreshSchedule string,
	sessions SessionEvictor,
	idleTimeout time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		poolRefreshJob:     NewPoolRefreshJob(publisher, refreshSchedule, logger),
		sessionEvictionJob: NewSessionEvictionJob(sessions, DefaultEvictionSchedule, idleTimeout, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.poolRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start pool refresh job: %w", err)
	}
	if err := jm.sessionEvictionJob.Start(); err != nil {
		jm.poolRefreshJob.Stop()
		return fmt.Errorf("failed to start session eviction job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.poolRefreshJob.Stop()
	jm.sessionEvictionJob.Stop()
}
