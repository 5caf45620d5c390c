package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrOverridePriceCommandIsNotConstructed = errors.New(
		"OverridePriceCommand must be created via NewOverridePriceCommand constructor",
	)
	ErrOverrideReasonIsRequired = errors.New("override reason is required")
)

// OverridePriceCommand replaces a line's unit price, keeping the original
// for reporting.
type OverridePriceCommand struct { //nolint:recvcheck //using for validation
	ref      kernel.OrderRef
	lineID   kernel.UUID
	newPrice kernel.Money
	reason   string
	actor    string

	guard guard.ConstructorGuard
}

// NewOverridePriceCommand creates a command to override a line price.
func NewOverridePriceCommand(ref kernel.OrderRef, lineID kernel.UUID, newPrice kernel.Money, reason, actor string) (OverridePriceCommand, error) {
	cmd := OverridePriceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
		requireActor(actor),
	); err != nil {
		return OverridePriceCommand{}, err
	}
	if newPrice.IsNegative() {
		return OverridePriceCommand{}, ErrUnitPriceIsInvalid
	}
	if reason == "" {
		return OverridePriceCommand{}, ErrOverrideReasonIsRequired
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.newPrice = newPrice
	cmd.reason = reason
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OverridePriceCommand) Validate() error {
	return c.guard.Validate(ErrOverridePriceCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c OverridePriceCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c OverridePriceCommand) LineID() kernel.UUID { return c.lineID }

// NewPrice returns the replacement unit price.
func (c OverridePriceCommand) NewPrice() kernel.Money { return c.newPrice }

// Reason returns the override reason.
func (c OverridePriceCommand) Reason() string { return c.reason }

// Actor returns who requested the override.
func (c OverridePriceCommand) Actor() string { return c.actor }

// OverridePriceCommandHandler handles price overrides.
type OverridePriceCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewOverridePriceCommandHandler creates a handler for price overrides.
func NewOverridePriceCommandHandler(uowFactory OrderUoWFactory) OverridePriceCommandHandler {
	return OverridePriceCommandHandler{uowFactory: uowFactory}
}

// Handle applies the price override.
func (h *OverridePriceCommandHandler) Handle(ctx context.Context, cmd OverridePriceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.OverridePrice(cmd.LineID(), cmd.NewPrice(), cmd.Reason(), cmd.Actor())
	})
}
