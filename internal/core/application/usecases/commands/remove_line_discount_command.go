package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrRemoveLineDiscountCommandIsNotConstructed = errors.New(
	"RemoveLineDiscountCommand must be created via NewRemoveLineDiscountCommand constructor",
)

// RemoveLineDiscountCommand clears the discount on a line.
type RemoveLineDiscountCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	lineID kernel.UUID
	actor  string

	guard guard.ConstructorGuard
}

// NewRemoveLineDiscountCommand creates a command to clear a line discount.
func NewRemoveLineDiscountCommand(ref kernel.OrderRef, lineID kernel.UUID, actor string) (RemoveLineDiscountCommand, error) {
	cmd := RemoveLineDiscountCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
		requireActor(actor),
	); err != nil {
		return RemoveLineDiscountCommand{}, err
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveLineDiscountCommand) Validate() error {
	return c.guard.Validate(ErrRemoveLineDiscountCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c RemoveLineDiscountCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c RemoveLineDiscountCommand) LineID() kernel.UUID { return c.lineID }

// Actor returns who removed the discount.
func (c RemoveLineDiscountCommand) Actor() string { return c.actor }

// RemoveLineDiscountCommandHandler handles line discount removal.
type RemoveLineDiscountCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRemoveLineDiscountCommandHandler creates a handler for discount removal.
func NewRemoveLineDiscountCommandHandler(uowFactory OrderUoWFactory) RemoveLineDiscountCommandHandler {
	return RemoveLineDiscountCommandHandler{uowFactory: uowFactory}
}

// Handle clears the discount.
func (h *RemoveLineDiscountCommandHandler) Handle(ctx context.Context, cmd RemoveLineDiscountCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.RemoveLineDiscount(cmd.LineID(), cmd.Actor())
	})
}
