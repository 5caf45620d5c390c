package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrFireItemsCommandIsNotConstructed = errors.New(
	"FireItemsCommand must be created via NewFireItemsCommand constructor",
)

// FireItemsCommand sends specific pending lines to the kitchen.
type FireItemsCommand struct { //nolint:recvcheck //using for validation
	ref     kernel.OrderRef
	lineIDs []kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

// NewFireItemsCommand creates a command to fire lines.
func NewFireItemsCommand(ref kernel.OrderRef, lineIDs []kernel.UUID, actor string) (FireItemsCommand, error) {
	cmd := FireItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
		requireLineIDs(lineIDs),
	); err != nil {
		return FireItemsCommand{}, err
	}

	cmd.ref = ref
	cmd.lineIDs = lineIDs
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FireItemsCommand) Validate() error {
	return c.guard.Validate(ErrFireItemsCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c FireItemsCommand) Ref() kernel.OrderRef { return c.ref }

// LineIDs returns the lines to fire.
func (c FireItemsCommand) LineIDs() []kernel.UUID { return c.lineIDs }

// Actor returns who fired the items.
func (c FireItemsCommand) Actor() string { return c.actor }

// FireItemsCommandHandler handles firing selected items.
type FireItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFireItemsCommandHandler creates a handler for firing items.
func NewFireItemsCommandHandler(uowFactory OrderUoWFactory) FireItemsCommandHandler {
	return FireItemsCommandHandler{uowFactory: uowFactory}
}

// Handle fires the items and returns the ids that went to the kitchen,
// one ticket per call.
func (h *FireItemsCommandHandler) Handle(ctx context.Context, cmd FireItemsCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var fired []kernel.UUID
	err := mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		var err error
		fired, err = aggregate.FireItems(cmd.LineIDs(), cmd.Actor())
		return err
	})
	if err != nil {
		return nil, err
	}
	return fired, nil
}
