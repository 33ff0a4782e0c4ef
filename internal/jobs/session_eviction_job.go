package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultEvictionSchedule fires every minute.
	DefaultEvictionSchedule = "0 * * * * *"
	// DefaultSessionIdleTimeout is how long an unused driver session lives.
	DefaultSessionIdleTimeout = 30 * time.Minute
)

// SessionEvictor drops driver sessions unused since cutoff.
type SessionEvictor interface {
	EvictIdle(cutoff time.Time) int
}

// SessionEvictionJob periodically drops idle driver sessions so the registry
// does not grow with every driver that ever signed in.
type SessionEvictionJob struct {
	sessions    SessionEvictor
	idleTimeout time.Duration
	schedule    string
	cron        *cron.Cron
	logger      *slog.Logger
	now         func() time.Time
}

// NewSessionEvictionJob creates the job. Zero values fall back to
// DefaultEvictionSchedule and DefaultSessionIdleTimeout.
func NewSessionEvictionJob(sessions SessionEvictor, schedule string, idleTimeout time.Duration, logger *slog.Logger) *SessionEvictionJob {
	if schedule == "" {
		schedule = DefaultEvictionSchedule
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionEvictionJob{
		sessions:    sessions,
		idleTimeout: idleTimeout,
		schedule:    schedule,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "session_eviction_job"),
		now:         time.Now,
	}
}

// Start begins evicting on the configured schedule.
func (j *SessionEvictionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session eviction job started",
		"schedule", j.schedule, "idle_timeout", j.idleTimeout.String())
	return nil
}

// Stop stops the schedule and waits for a running eviction to finish.
func (j *SessionEvictionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Session eviction job stopped")
}

func (j *SessionEvictionJob) tick() {
	if evicted := j.sessions.EvictIdle(j.now().Add(-j.idleTimeout)); evicted > 0 {
		j.logger.InfoContext(context.Background(), "Evicted idle sessions", "count", evicted)
	}
}
