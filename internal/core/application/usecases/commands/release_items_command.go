package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrReleaseItemsCommandIsNotConstructed = errors.New(
	"ReleaseItemsCommand must be created via NewReleaseItemsCommand constructor",
)

// ReleaseItemsCommand returns held lines to the pending pool.
type ReleaseItemsCommand struct { //nolint:recvcheck //using for validation
	ref     kernel.OrderRef
	lineIDs []kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

// NewReleaseItemsCommand creates a command to release held lines.
func NewReleaseItemsCommand(ref kernel.OrderRef, lineIDs []kernel.UUID, actor string) (ReleaseItemsCommand, error) {
	cmd := ReleaseItemsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
		requireLineIDs(lineIDs),
	); err != nil {
		return ReleaseItemsCommand{}, err
	}

	cmd.ref = ref
	cmd.lineIDs = lineIDs
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseItemsCommand) Validate() error {
	return c.guard.Validate(ErrReleaseItemsCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c ReleaseItemsCommand) Ref() kernel.OrderRef { return c.ref }

// LineIDs returns the lines to release.
func (c ReleaseItemsCommand) LineIDs() []kernel.UUID { return c.lineIDs }

// Actor returns who requested the release.
func (c ReleaseItemsCommand) Actor() string { return c.actor }

// ReleaseItemsCommandHandler handles item releases.
type ReleaseItemsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewReleaseItemsCommandHandler creates a handler for item releases.
func NewReleaseItemsCommandHandler(uowFactory OrderUoWFactory) ReleaseItemsCommandHandler {
	return ReleaseItemsCommandHandler{uowFactory: uowFactory}
}

// Handle releases the items.
func (h *ReleaseItemsCommandHandler) Handle(ctx context.Context, cmd ReleaseItemsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.ReleaseItems(cmd.LineIDs(), cmd.Actor())
	})
}
