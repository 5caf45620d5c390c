// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-driven (github.com/robfig/cron/v3) and managed through
// JobManager, which starts and stops them together:
//
//	jobManager := jobs.NewJobManager(uowFactory, closeHandler, sequencer,
//		cfg.AutoCloseSchedule, cfg.AutoCloseStaleAfter, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// AutoCloseJob sweeps active orders on a schedule and closes the fully paid
// ones that have been idle past the stale window. Every close runs on the
// order's serialized command queue, so the sweep never conflicts with a
// server working the same check. Orders that still carry a balance are
// skipped; they need an explicit close or void from the floor.
package jobs
