package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"tableside/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled background jobs of the application.
// Provides a unified interface to start and stop them together.
type JobManager struct {
	autoCloseJob *AutoCloseJob
}

// NewJobManager creates a job manager with all required jobs wired up.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	closeHandler commands.CloseOrderCommandHandler,
	sequencer commands.Sequencer,
	autoCloseSchedule string,
	autoCloseStaleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		autoCloseJob: NewAutoCloseJob(
			uowFactory, closeHandler, sequencer,
			autoCloseSchedule, autoCloseStaleAfter, logger,
		),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.autoCloseJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto-close job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.autoCloseJob.Stop()
}
