package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// autoCloseActor is recorded on the close event of every swept order.
const autoCloseActor = "system:auto-close"

// sweepTimeout bounds one full sweep, not one order.
const sweepTimeout = time.Minute

// AutoCloseJob is the end-of-day sweep. On each tick it finds active orders
// that have not been touched for the configured stale window and closes the
// fully paid ones. Unsettled orders are left alone; a server has to close or
// void those explicitly.
type AutoCloseJob struct {
	uowFactory   commands.OrderUoWFactory
	closeHandler commands.CloseOrderCommandHandler
	sequencer    commands.Sequencer
	staleAfter   time.Duration
	schedule     string
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewAutoCloseJob creates the sweep job. The schedule is a six-field cron
// expression; staleAfter is how long an order may sit untouched before the
// sweep considers it abandoned.
func NewAutoCloseJob(
	uowFactory commands.OrderUoWFactory,
	closeHandler commands.CloseOrderCommandHandler,
	sequencer commands.Sequencer,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *AutoCloseJob {
	return &AutoCloseJob{
		uowFactory:   uowFactory,
		closeHandler: closeHandler,
		sequencer:    sequencer,
		staleAfter:   staleAfter,
		schedule:     schedule,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "auto_close_job"),
	}
}

// Start schedules the sweep and begins ticking.
func (j *AutoCloseJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Sweep); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-close job started",
		"schedule", j.schedule, "stale_after", j.staleAfter)
	return nil
}

// Stop stops the sweep.
func (j *AutoCloseJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto-close job stopped")
}

// Sweep runs one pass immediately. The cron schedule calls it on every tick;
// close commands go through the per-order dispatcher so the sweep never
// races a server mutating the same order.
func (j *AutoCloseJob) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	cutoff := time.Now().Add(-j.staleAfter)
	repo := j.uowFactory.Create().OrderRepository()

	stale, err := repo.GetAllActiveOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto-close sweep failed", "error", err)
		return
	}

	closed := 0
	for _, candidate := range stale {
		if candidate.Status() != order.Paid {
			continue
		}

		ref := candidate.Ref()
		cmd, cmdErr := commands.NewCloseOrderCommand(ref, autoCloseActor, false)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Auto-close command rejected",
				"order", ref.Key(), "error", cmdErr)
			continue
		}

		closeErr := j.sequencer.Do(ctx, ref.Key(), func(c context.Context) error {
			return j.closeHandler.Handle(c, cmd)
		})
		if closeErr != nil {
			// The order may have been reopened, voided or unsettled between
			// the sweep query and the close running on its queue.
			var invalidState *errs.InvalidStateError
			if errors.As(closeErr, &invalidState) {
				continue
			}
			j.logger.ErrorContext(ctx, "Auto-close failed",
				"order", ref.Key(), "error", closeErr)
			continue
		}
		closed++
	}

	if closed > 0 {
		j.logger.InfoContext(ctx, "Auto-close sweep finished",
			"candidates", len(stale), "closed", closed)
	}
}
