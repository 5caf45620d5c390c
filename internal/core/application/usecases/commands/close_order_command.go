package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrCloseOrderCommandIsNotConstructed = errors.New(
	"CloseOrderCommand must be created via NewCloseOrderCommand constructor",
)

// CloseOrderCommand finalizes an order. AllowUnsettled is the manager
// override for closing with an outstanding balance (walkouts, comps
// settled elsewhere).
type CloseOrderCommand struct { //nolint:recvcheck //using for validation
	ref            kernel.OrderRef
	actor          string
	allowUnsettled bool

	guard guard.ConstructorGuard
}

// NewCloseOrderCommand creates a command to close an order.
func NewCloseOrderCommand(ref kernel.OrderRef, actor string, allowUnsettled bool) (CloseOrderCommand, error) {
	cmd := CloseOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return CloseOrderCommand{}, err
	}

	cmd.ref = ref
	cmd.actor = actor
	cmd.allowUnsettled = allowUnsettled
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CloseOrderCommand) Validate() error {
	return c.guard.Validate(ErrCloseOrderCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c CloseOrderCommand) Ref() kernel.OrderRef { return c.ref }

// Actor returns who closed the order.
func (c CloseOrderCommand) Actor() string { return c.actor }

// AllowUnsettled reports whether an outstanding balance may be ignored.
func (c CloseOrderCommand) AllowUnsettled() bool { return c.allowUnsettled }

// CloseOrderCommandHandler handles order closing.
type CloseOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCloseOrderCommandHandler creates a handler for order closing.
func NewCloseOrderCommandHandler(uowFactory OrderUoWFactory) CloseOrderCommandHandler {
	return CloseOrderCommandHandler{uowFactory: uowFactory}
}

// Handle closes the order.
func (h *CloseOrderCommandHandler) Handle(ctx context.Context, cmd CloseOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.Close(cmd.Actor(), cmd.AllowUnsettled())
	})
}
