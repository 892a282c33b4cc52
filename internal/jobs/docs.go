// Package jobs provides scheduled background tasks built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// DispatchRetryJob sweeps ready orders that are still waiting for a driver and runs
// dispatch for each of them. Dispatch normally happens when an order becomes ready;
// the sweep picks up the orders that found no eligible driver at that moment.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(assignPendingHandler, "*/15 * * * * *", 50, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Per-order failures are counted by the sweep and logged at warn level; a failed
// sweep is logged and retried at the next tick.
package jobs
