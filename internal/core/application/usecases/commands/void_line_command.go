package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrVoidLineCommandIsNotConstructed = errors.New(
		"VoidLineCommand must be created via NewVoidLineCommand constructor",
	)
	ErrActorIsRequired      = errors.New("actor is required")
	ErrVoidReasonIsRequired = errors.New("void reason is required")
)

// VoidLineCommand represents a request to void a line while keeping it on
// the order for audit.
type VoidLineCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	lineID kernel.UUID
	actor  string
	reason string

	guard guard.ConstructorGuard
}

// NewVoidLineCommand creates a command to void a line.
func NewVoidLineCommand(ref kernel.OrderRef, lineID kernel.UUID, actor, reason string) (VoidLineCommand, error) {
	cmd := VoidLineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
		requireActor(actor),
	); err != nil {
		return VoidLineCommand{}, err
	}
	if reason == "" {
		return VoidLineCommand{}, ErrVoidReasonIsRequired
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.actor = actor
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VoidLineCommand) Validate() error {
	return c.guard.Validate(ErrVoidLineCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c VoidLineCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c VoidLineCommand) LineID() kernel.UUID { return c.lineID }

// Actor returns who requested the void.
func (c VoidLineCommand) Actor() string { return c.actor }

// Reason returns the void reason.
func (c VoidLineCommand) Reason() string { return c.reason }

func requireActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}
	return nil
}

// VoidLineCommandHandler handles line voiding.
type VoidLineCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewVoidLineCommandHandler creates a handler for line voiding.
func NewVoidLineCommandHandler(uowFactory OrderUoWFactory) VoidLineCommandHandler {
	return VoidLineCommandHandler{uowFactory: uowFactory}
}

// Handle voids the line.
func (h *VoidLineCommandHandler) Handle(ctx context.Context, cmd VoidLineCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.VoidLine(cmd.LineID(), cmd.Actor(), cmd.Reason())
	})
}
