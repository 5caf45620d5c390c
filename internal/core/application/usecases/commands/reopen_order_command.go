package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrReopenOrderCommandIsNotConstructed = errors.New(
	"ReopenOrderCommand must be created via NewReopenOrderCommand constructor",
)

// ReopenOrderCommand returns a closed or voided order to Open, for
// post-close corrections.
type ReopenOrderCommand struct { //nolint:recvcheck //using for validation
	ref   kernel.OrderRef
	actor string

	guard guard.ConstructorGuard
}

// NewReopenOrderCommand creates a command to reopen an order.
func NewReopenOrderCommand(ref kernel.OrderRef, actor string) (ReopenOrderCommand, error) {
	cmd := ReopenOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return ReopenOrderCommand{}, err
	}

	cmd.ref = ref
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReopenOrderCommand) Validate() error {
	return c.guard.Validate(ErrReopenOrderCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c ReopenOrderCommand) Ref() kernel.OrderRef { return c.ref }

// Actor returns who reopened the order.
func (c ReopenOrderCommand) Actor() string { return c.actor }

// ReopenOrderCommandHandler handles order reopening.
type ReopenOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewReopenOrderCommandHandler creates a handler for order reopening.
func NewReopenOrderCommandHandler(uowFactory OrderUoWFactory) ReopenOrderCommandHandler {
	return ReopenOrderCommandHandler{uowFactory: uowFactory}
}

// Handle reopens the order.
func (h *ReopenOrderCommandHandler) Handle(ctx context.Context, cmd ReopenOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.Reopen(cmd.Actor())
	})
}
