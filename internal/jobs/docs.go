// Package jobs provides scheduled background tasks for the fulfillment
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around the store boards.
//
// # Available Jobs
//
// 1. BoardRefreshJob - Runs every 30 seconds to query the dispatch board,
// log the per-stage order counts and keep the state catalog cache warm.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(getBoardOrdersHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The refresh job uses the cron expression "*/30 * * * * *", matching the
// polling interval of the store board UIs.
//
// # Error Handling
//
// Refresh failures are logged and the next tick retries from scratch; the
// job carries no state between runs.
package jobs
