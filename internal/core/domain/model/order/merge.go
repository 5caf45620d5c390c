package order

import (
	"fmt"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
)

// Cross-order merge. Two independently-owned aggregates are combined
// without a distributed transaction, as a two-step saga:
//
//  1. Drain: the source atomically (with respect to its own command queue)
//     marks itself Closed, remembers the target, and returns its non-voided
//     lines and payments. A retried drain from the same target returns the
//     same snapshot, so the step is idempotent.
//  2. Append: the target absorbs the drained items and records the source
//     ref in its event log; a second append from the same source is
//     rejected, so the step is idempotent too.
//
// If the append step fails after the source has closed, the system is left
// inconsistent; callers must treat merge as at-most-once and reconcile via
// the event logs. This is best-effort by design, not ACID.

// MergeResult reports how many items a merge moved into the target.
type MergeResult struct {
	LinesMerged    int
	PaymentsMerged int
}

// DrainedItems is the snapshot handed from the source to the target.
// Lines are deep copies: the two aggregates never share entities.
type DrainedItems struct {
	Lines    []*Line
	Payments []Payment
}

// CanAbsorbMerge verifies the target side of a merge before the source is
// drained, keeping the inconsistency window as small as possible.
func (o *Order) CanAbsorbMerge(source kernel.OrderRef) error {
	if !o.status.IsActive() {
		return errs.NewInvalidStateError(
			fmt.Sprintf("cannot merge into a %s order", o.status),
		)
	}
	if o.ref.IsEqual(source) {
		return errs.NewInvalidStateError("cannot merge an order into itself")
	}
	for _, key := range o.mergedFrom {
		if key == source.Key() {
			return errs.NewInvalidStateError(
				fmt.Sprintf("order %s was already merged into this order", source),
			)
		}
	}
	return nil
}

// DrainForMerge closes the source order and returns its non-voided lines
// and all payments for the target to absorb.
//
// Idempotency: if the order was already drained by the same target, the
// same snapshot is returned again without further state change. A drain
// request from any other party against a closed or voided order fails.
func (o *Order) DrainForMerge(target kernel.OrderRef, actor string) (DrainedItems, error) {
	if err := target.Validate(); err != nil {
		return DrainedItems{}, err
	}
	if o.ref.IsEqual(target) {
		return DrainedItems{}, errs.NewInvalidStateError("cannot merge an order into itself")
	}

	if !o.status.IsActive() {
		if o.drainedBy != nil && o.drainedBy.IsEqual(target) {
			return o.drainSnapshot(), nil
		}
		return DrainedItems{}, errs.NewInvalidStateError(
			fmt.Sprintf("cannot merge from a %s order", o.status),
		)
	}

	drained := target
	o.status = Closed
	o.drainedBy = &drained
	now := time.Now().UTC()
	o.closedAt = &now
	o.record(EventDrained, actor, fmt.Sprintf("drained into %s", target))
	return o.drainSnapshot(), nil
}

func (o *Order) drainSnapshot() DrainedItems {
	items := DrainedItems{
		Lines:    make([]*Line, 0, len(o.lines)),
		Payments: append([]Payment(nil), o.payments...),
	}
	for _, l := range o.lines {
		if !l.IsVoided() {
			items.Lines = append(items.Lines, l.clone())
		}
	}
	return items
}

// AbsorbMerge appends the drained lines and payments from the source order
// and recomputes totals. Rejects a duplicate merge from the same source.
func (o *Order) AbsorbMerge(source kernel.OrderRef, items DrainedItems, actor string) (MergeResult, error) {
	if err := o.CanAbsorbMerge(source); err != nil {
		return MergeResult{}, err
	}

	o.lines = append(o.lines, items.Lines...)
	o.payments = append(o.payments, items.Payments...)
	o.mergedFrom = append(o.mergedFrom, source.Key())
	o.recompute()
	o.refreshPaymentStatus()

	result := MergeResult{
		LinesMerged:    len(items.Lines),
		PaymentsMerged: len(items.Payments),
	}
	o.record(EventMerged, actor,
		fmt.Sprintf("merged %d lines and %d payments from %s",
			result.LinesMerged, result.PaymentsMerged, source))
	return result, nil
}
