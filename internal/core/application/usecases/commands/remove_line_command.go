package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrRemoveLineCommandIsNotConstructed = errors.New(
	"RemoveLineCommand must be created via NewRemoveLineCommand constructor",
)

// RemoveLineCommand physically removes a line, for entry mistakes caught
// before anything was fired. Voiding is the auditable alternative.
type RemoveLineCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	lineID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveLineCommand creates a command to remove a line.
func NewRemoveLineCommand(ref kernel.OrderRef, lineID kernel.UUID) (RemoveLineCommand, error) {
	cmd := RemoveLineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
	); err != nil {
		return RemoveLineCommand{}, err
	}

	cmd.ref = ref
	cmd.lineID = lineID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveLineCommand) Validate() error {
	return c.guard.Validate(ErrRemoveLineCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c RemoveLineCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c RemoveLineCommand) LineID() kernel.UUID { return c.lineID }

// RemoveLineCommandHandler handles physical line removal.
type RemoveLineCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRemoveLineCommandHandler creates a handler for line removal.
func NewRemoveLineCommandHandler(uowFactory OrderUoWFactory) RemoveLineCommandHandler {
	return RemoveLineCommandHandler{uowFactory: uowFactory}
}

// Handle removes the line.
func (h *RemoveLineCommandHandler) Handle(ctx context.Context, cmd RemoveLineCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.RemoveLine(cmd.LineID())
	})
}
