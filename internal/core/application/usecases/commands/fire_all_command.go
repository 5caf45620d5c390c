package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrFireAllCommandIsNotConstructed = errors.New(
	"FireAllCommand must be created via NewFireAllCommand constructor",
)

// FireAllCommand sends every pending line to the kitchen. Held lines stay
// behind.
type FireAllCommand struct { //nolint:recvcheck //using for validation
	ref   kernel.OrderRef
	actor string

	guard guard.ConstructorGuard
}

// NewFireAllCommand creates a command to fire everything pending.
func NewFireAllCommand(ref kernel.OrderRef, actor string) (FireAllCommand, error) {
	cmd := FireAllCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return FireAllCommand{}, err
	}

	cmd.ref = ref
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FireAllCommand) Validate() error {
	return c.guard.Validate(ErrFireAllCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c FireAllCommand) Ref() kernel.OrderRef { return c.ref }

// Actor returns who fired the order.
func (c FireAllCommand) Actor() string { return c.actor }

// FireAllCommandHandler handles firing all pending items.
type FireAllCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFireAllCommandHandler creates a handler for firing all items.
func NewFireAllCommandHandler(uowFactory OrderUoWFactory) FireAllCommandHandler {
	return FireAllCommandHandler{uowFactory: uowFactory}
}

// Handle fires all pending items and returns the fired line ids.
func (h *FireAllCommandHandler) Handle(ctx context.Context, cmd FireAllCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var fired []kernel.UUID
	err := mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		var err error
		fired, err = aggregate.FireAll(cmd.Actor())
		return err
	})
	if err != nil {
		return nil, err
	}
	return fired, nil
}
