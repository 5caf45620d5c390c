package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrVoidOrderCommandIsNotConstructed = errors.New(
	"VoidOrderCommand must be created via NewVoidOrderCommand constructor",
)

// VoidOrderCommand cancels an entire order with a mandatory reason.
type VoidOrderCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	actor  string
	reason string

	guard guard.ConstructorGuard
}

// NewVoidOrderCommand creates a command to void an order.
func NewVoidOrderCommand(ref kernel.OrderRef, actor, reason string) (VoidOrderCommand, error) {
	cmd := VoidOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return VoidOrderCommand{}, err
	}
	if reason == "" {
		return VoidOrderCommand{}, ErrVoidReasonIsRequired
	}

	cmd.ref = ref
	cmd.actor = actor
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VoidOrderCommand) Validate() error {
	return c.guard.Validate(ErrVoidOrderCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c VoidOrderCommand) Ref() kernel.OrderRef { return c.ref }

// Actor returns who voided the order.
func (c VoidOrderCommand) Actor() string { return c.actor }

// Reason returns the void reason.
func (c VoidOrderCommand) Reason() string { return c.reason }

// VoidOrderCommandHandler handles order voiding.
type VoidOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewVoidOrderCommandHandler creates a handler for order voiding.
func NewVoidOrderCommandHandler(uowFactory OrderUoWFactory) VoidOrderCommandHandler {
	return VoidOrderCommandHandler{uowFactory: uowFactory}
}

// Handle voids the order.
func (h *VoidOrderCommandHandler) Handle(ctx context.Context, cmd VoidOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.Void(cmd.Actor(), cmd.Reason())
	})
}
