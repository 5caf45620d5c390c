package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrHoldItemsCommandIsNotConstructed = errors.New(
		"HoldItemsCommand must be created via NewHoldItemsCommand constructor",
	)
	ErrLineIDsAreRequired = errors.New("at least one line id is required")
)

// HoldItemsCommand withholds pending lines from the kitchen until released.
type HoldItemsCommand struct { //nolint:recvcheck //using for validation
	ref     kernel.OrderRef
	lineIDs []kernel.UUID
	actor   string
	reason  string

	guard guard.ConstructorGuard
}

// NewHoldItemsCommand creates a command to hold lines.
func NewHoldItemsCommand(ref kernel.OrderRef, lineIDs []kernel.UUID, actor, reason string) (HoldItemsCommand, error) {
	cmd := HoldItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
		requireLineIDs(lineIDs),
	); err != nil {
		return HoldItemsCommand{}, err
	}

	cmd.ref = ref
	cmd.lineIDs = lineIDs
	cmd.actor = actor
	cmd.reason = reason
	return cmd, nil
}

func requireLineIDs(lineIDs []kernel.UUID) error {
	if len(lineIDs) == 0 {
		return ErrLineIDsAreRequired
	}
	for _, id := range lineIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures the command was created through the constructor.
func (c HoldItemsCommand) Validate() error {
	return c.guard.Validate(ErrHoldItemsCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c HoldItemsCommand) Ref() kernel.OrderRef { return c.ref }

// LineIDs returns the lines to hold.
func (c HoldItemsCommand) LineIDs() []kernel.UUID { return c.lineIDs }

// Actor returns who requested the hold.
func (c HoldItemsCommand) Actor() string { return c.actor }

// Reason returns the optional hold reason.
func (c HoldItemsCommand) Reason() string { return c.reason }

// HoldItemsCommandHandler handles item holds.
type HoldItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewHoldItemsCommandHandler creates a handler for item holds.
func NewHoldItemsCommandHandler(uowFactory OrderUoWFactory) HoldItemsCommandHandler {
	return HoldItemsCommandHandler{uowFactory: uowFactory}
}

// Handle holds the items.
func (h *HoldItemsCommandHandler) Handle(ctx context.Context, cmd HoldItemsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.HoldItems(cmd.LineIDs(), cmd.Actor(), cmd.Reason())
	})
}
