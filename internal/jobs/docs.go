// Package jobs provides scheduled background tasks for the freight service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// PoolRefreshJob publishes a pool-wide change tick into the in-process change
// hub. Every live driver session re-pulls its snapshot on the tick, which
// covers notifications dropped by the database or the broker.
//
// SessionEvictionJob drops driver sessions nobody has used for the idle
// timeout. Sessions held by an open websocket stream are kept.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(hub, cfg.RefreshSchedule, sessions, cfg.SessionIdleTimeout, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed tick is logged and the next one is attempted on schedule. An
// invalid schedule fails StartAll.
package jobs
