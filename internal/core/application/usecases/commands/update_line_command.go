package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrUpdateLineCommandIsNotConstructed = errors.New(
		"UpdateLineCommand must be created via NewUpdateLineCommand constructor",
	)
	ErrNothingToUpdate = errors.New("at least one of quantity, seat or course must be provided")
)

// UpdateLineCommand represents a partial update of a line: only the
// provided fields change. Nil pointers mean "leave as is".
type UpdateLineCommand struct { //nolint:recvcheck //using for validation
	ref      kernel.OrderRef
	lineID   kernel.UUID
	quantity *int
	seat     *int
	course   *int

	guard guard.ConstructorGuard
}

// NewUpdateLineCommand creates a command to update a line in place.
func NewUpdateLineCommand(ref kernel.OrderRef, lineID kernel.UUID, quantity, seat, course *int) (UpdateLineCommand, error) {
	cmd := UpdateLineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
	); err != nil {
		return UpdateLineCommand{}, err
	}
	if quantity == nil && seat == nil && course == nil {
		return UpdateLineCommand{}, ErrNothingToUpdate
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.quantity = quantity
	cmd.seat = seat
	cmd.course = course
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateLineCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLineCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c UpdateLineCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c UpdateLineCommand) LineID() kernel.UUID { return c.lineID }

// Quantity returns the new quantity, nil when unchanged.
func (c UpdateLineCommand) Quantity() *int { return c.quantity }

// Seat returns the new seat, nil when unchanged.
func (c UpdateLineCommand) Seat() *int { return c.seat }

// Course returns the new course, nil when unchanged.
func (c UpdateLineCommand) Course() *int { return c.course }

// UpdateLineCommandHandler handles partial line updates.
type UpdateLineCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateLineCommandHandler creates a handler for line updates.
func NewUpdateLineCommandHandler(uowFactory OrderUoWFactory) UpdateLineCommandHandler {
	return UpdateLineCommandHandler{uowFactory: uowFactory}
}

// Handle applies the partial update.
func (h *UpdateLineCommandHandler) Handle(ctx context.Context, cmd UpdateLineCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.UpdateLine(cmd.LineID(), cmd.Quantity(), cmd.Seat(), cmd.Course())
	})
}
