package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrMergeOrdersCommandIsNotConstructed = errors.New(
		"MergeOrdersCommand must be created via NewMergeOrdersCommand constructor",
	)
	ErrMergeIntoSelf = errors.New("source and target orders must differ")
)

// MergeOrdersCommand merges the source order into the target: the source
// closes and its lines and payments move to the target.
type MergeOrdersCommand struct { //nolint:recvcheck //using for validation
	sourceRef kernel.OrderRef
	targetRef kernel.OrderRef
	actor     string

	guard guard.ConstructorGuard
}

// NewMergeOrdersCommand creates a command to merge two orders.
func NewMergeOrdersCommand(sourceRef, targetRef kernel.OrderRef, actor string) (MergeOrdersCommand, error) {
	cmd := MergeOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sourceRef.Validate(),
		targetRef.Validate(),
		requireActor(actor),
	); err != nil {
		return MergeOrdersCommand{}, err
	}
	if sourceRef.IsEqual(targetRef) {
		return MergeOrdersCommand{}, ErrMergeIntoSelf
	}

	cmd.sourceRef = sourceRef
	cmd.targetRef = targetRef
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MergeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrMergeOrdersCommandIsNotConstructed)
}

// SourceRef returns the order being drained.
func (c MergeOrdersCommand) SourceRef() kernel.OrderRef { return c.sourceRef }

// TargetRef returns the order absorbing the merge.
func (c MergeOrdersCommand) TargetRef() kernel.OrderRef { return c.targetRef }

// Actor returns who requested the merge.
func (c MergeOrdersCommand) Actor() string { return c.actor }

// MergeOrdersCommandHandler coordinates the two-step merge saga. Each step
// runs on the owning order's serialized queue in its own transaction:
// there is no distributed transaction tying them together.
//
// The steps never nest, so the handler cannot deadlock the two queues: it
// occupies at most one queue at a time.
type MergeOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	sequencer  Sequencer
}

// NewMergeOrdersCommandHandler creates a handler for order merges.
func NewMergeOrdersCommandHandler(uowFactory OrderUoWFactory, sequencer Sequencer) MergeOrdersCommandHandler {
	return MergeOrdersCommandHandler{
		uowFactory: uowFactory,
		sequencer:  sequencer,
	}
}

// Handle runs the merge saga and reports how many lines and payments
// moved.
//
// Ordering: the target is prechecked first, then the source drains, then
// the target absorbs. Both mutating steps are idempotent, so a crashed
// merge can be retried with the same command. If the target precheck
// passes but the absorb later fails, the source is left Closed with its
// drain recorded; the event logs of both orders carry enough to reconcile
// manually. Best effort, not two-phase commit.
func (h *MergeOrdersCommandHandler) Handle(ctx context.Context, cmd MergeOrdersCommand) (order.MergeResult, error) {
	if err := cmd.Validate(); err != nil {
		return order.MergeResult{}, err
	}

	err := h.sequencer.Do(ctx, cmd.TargetRef().Key(), func(ctx context.Context) error {
		return h.precheckTarget(ctx, cmd)
	})
	if err != nil {
		return order.MergeResult{}, err
	}

	var items order.DrainedItems
	err = h.sequencer.Do(ctx, cmd.SourceRef().Key(), func(ctx context.Context) error {
		var err error
		items, err = h.drainSource(ctx, cmd)
		return err
	})
	if err != nil {
		return order.MergeResult{}, err
	}

	var result order.MergeResult
	err = h.sequencer.Do(ctx, cmd.TargetRef().Key(), func(ctx context.Context) error {
		var err error
		result, err = h.absorbIntoTarget(ctx, cmd, items)
		return err
	})
	if err != nil {
		return order.MergeResult{}, err
	}
	return result, nil
}

func (h *MergeOrdersCommandHandler) precheckTarget(ctx context.Context, cmd MergeOrdersCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.OrderRepository().Get(ctx, cmd.TargetRef())
	if err != nil {
		return err
	}
	return target.CanAbsorbMerge(cmd.SourceRef())
}

func (h *MergeOrdersCommandHandler) drainSource(ctx context.Context, cmd MergeOrdersCommand) (order.DrainedItems, error) {
	var items order.DrainedItems
	err := mutateOrder(ctx, h.uowFactory, cmd.SourceRef(), func(aggregate *order.Order) error {
		var err error
		items, err = aggregate.DrainForMerge(cmd.TargetRef(), cmd.Actor())
		return err
	})
	return items, err
}

func (h *MergeOrdersCommandHandler) absorbIntoTarget(ctx context.Context, cmd MergeOrdersCommand, items order.DrainedItems) (order.MergeResult, error) {
	var result order.MergeResult
	err := mutateOrder(ctx, h.uowFactory, cmd.TargetRef(), func(aggregate *order.Order) error {
		var err error
		result, err = aggregate.AbsorbMerge(cmd.SourceRef(), items, cmd.Actor())
		return err
	})
	return result, err
}
