package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrAssignSeatCommandIsNotConstructed = errors.New(
	"AssignSeatCommand must be created via NewAssignSeatCommand constructor",
)

// AssignSeatCommand assigns a line to a seat for split-by-seat checks.
type AssignSeatCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	lineID kernel.UUID
	seat   int
	actor  string

	guard guard.ConstructorGuard
}

// NewAssignSeatCommand creates a command to assign a seat. Seat bounds are
// enforced by the aggregate.
func NewAssignSeatCommand(ref kernel.OrderRef, lineID kernel.UUID, seat int, actor string) (AssignSeatCommand, error) {
	cmd := AssignSeatCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
		requireActor(actor),
	); err != nil {
		return AssignSeatCommand{}, err
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.seat = seat
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignSeatCommand) Validate() error {
	return c.guard.Validate(ErrAssignSeatCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c AssignSeatCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c AssignSeatCommand) LineID() kernel.UUID { return c.lineID }

// Seat returns the seat number.
func (c AssignSeatCommand) Seat() int { return c.seat }

// Actor returns who assigned the seat.
func (c AssignSeatCommand) Actor() string { return c.actor }

// AssignSeatCommandHandler handles seat assignment.
type AssignSeatCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAssignSeatCommandHandler creates a handler for seat assignment.
func NewAssignSeatCommandHandler(uowFactory OrderUoWFactory) AssignSeatCommandHandler {
	return AssignSeatCommandHandler{uowFactory: uowFactory}
}

// Handle assigns the seat.
func (h *AssignSeatCommandHandler) Handle(ctx context.Context, cmd AssignSeatCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.AssignSeat(cmd.LineID(), cmd.Seat(), cmd.Actor())
	})
}
