package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrApplyLineDiscountCommandIsNotConstructed = errors.New(
	"ApplyLineDiscountCommand must be created via NewApplyLineDiscountCommand constructor",
)

// ApplyLineDiscountCommand applies a discount to a single line. The
// aggregate caps the result at the line total.
type ApplyLineDiscountCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	lineID kernel.UUID
	dtype  order.DiscountType
	value  decimal.Decimal
	actor  string
	reason string

	guard guard.ConstructorGuard
}

// NewApplyLineDiscountCommand creates a command to discount a line.
func NewApplyLineDiscountCommand(
	ref kernel.OrderRef,
	lineID kernel.UUID,
	dtype order.DiscountType,
	value decimal.Decimal,
	actor, reason string,
) (ApplyLineDiscountCommand, error) {
	cmd := ApplyLineDiscountCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		lineID.Validate(),
		dtype.Validate(),
		requireActor(actor),
		validateDiscountValue(dtype, value),
	); err != nil {
		return ApplyLineDiscountCommand{}, err
	}

	cmd.ref = ref
	cmd.lineID = lineID
	cmd.dtype = dtype
	cmd.value = value
	cmd.actor = actor
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyLineDiscountCommand) Validate() error {
	return c.guard.Validate(ErrApplyLineDiscountCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c ApplyLineDiscountCommand) Ref() kernel.OrderRef { return c.ref }

// LineID returns the target line id.
func (c ApplyLineDiscountCommand) LineID() kernel.UUID { return c.lineID }

// DiscountType returns percentage or fixed amount.
func (c ApplyLineDiscountCommand) DiscountType() order.DiscountType { return c.dtype }

// Value returns the percentage or monetary value.
func (c ApplyLineDiscountCommand) Value() decimal.Decimal { return c.value }

// Actor returns who applied the discount.
func (c ApplyLineDiscountCommand) Actor() string { return c.actor }

// Reason returns the optional discount reason.
func (c ApplyLineDiscountCommand) Reason() string { return c.reason }

// ApplyLineDiscountCommandHandler handles line-level discounts.
type ApplyLineDiscountCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewApplyLineDiscountCommandHandler creates a handler for line discounts.
func NewApplyLineDiscountCommandHandler(uowFactory OrderUoWFactory) ApplyLineDiscountCommandHandler {
	return ApplyLineDiscountCommandHandler{uowFactory: uowFactory}
}

// Handle applies the line discount.
func (h *ApplyLineDiscountCommandHandler) Handle(ctx context.Context, cmd ApplyLineDiscountCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.ApplyLineDiscount(cmd.LineID(), cmd.DiscountType(), cmd.Value(), cmd.Actor(), cmd.Reason())
	})
}
