package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrApplyOrderDiscountCommandIsNotConstructed = errors.New(
		"ApplyOrderDiscountCommand must be created via NewApplyOrderDiscountCommand constructor",
	)
	ErrDiscountDescriptionIsRequired = errors.New("discount description is required")
	ErrDiscountValueIsInvalid        = errors.New("discount value must be greater than 0")
	ErrPercentageOutOfRange          = errors.New("percentage discount must be between 0 and 100")
)

// ApplyOrderDiscountCommand applies a percentage or fixed-amount discount
// to the whole order.
type ApplyOrderDiscountCommand struct { //nolint:recvcheck //using for validation
	ref         kernel.OrderRef
	description string
	dtype       order.DiscountType
	value       decimal.Decimal
	actor       string

	guard guard.ConstructorGuard
}

// NewApplyOrderDiscountCommand creates a command to apply an order-level
// discount. Percentage values must lie in (0, 100].
func NewApplyOrderDiscountCommand(
	ref kernel.OrderRef,
	description string,
	dtype order.DiscountType,
	value decimal.Decimal,
	actor string,
) (ApplyOrderDiscountCommand, error) {
	cmd := ApplyOrderDiscountCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		dtype.Validate(),
		requireActor(actor),
		validateDiscountValue(dtype, value),
	); err != nil {
		return ApplyOrderDiscountCommand{}, err
	}
	if description == "" {
		return ApplyOrderDiscountCommand{}, ErrDiscountDescriptionIsRequired
	}

	cmd.ref = ref
	cmd.description = description
	cmd.dtype = dtype
	cmd.value = value
	cmd.actor = actor
	return cmd, nil
}

func validateDiscountValue(dtype order.DiscountType, value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrDiscountValueIsInvalid
	}
	if dtype == order.Percentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageOutOfRange
	}
	return nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyOrderDiscountCommand) Validate() error {
	return c.guard.Validate(ErrApplyOrderDiscountCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c ApplyOrderDiscountCommand) Ref() kernel.OrderRef { return c.ref }

// Description returns the human-readable discount description.
func (c ApplyOrderDiscountCommand) Description() string { return c.description }

// DiscountType returns percentage or fixed amount.
func (c ApplyOrderDiscountCommand) DiscountType() order.DiscountType { return c.dtype }

// Value returns the percentage or monetary value.
func (c ApplyOrderDiscountCommand) Value() decimal.Decimal { return c.value }

// Actor returns who applied the discount.
func (c ApplyOrderDiscountCommand) Actor() string { return c.actor }

// ApplyOrderDiscountCommandHandler handles order-level discounts.
type ApplyOrderDiscountCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewApplyOrderDiscountCommandHandler creates a handler for order discounts.
func NewApplyOrderDiscountCommandHandler(uowFactory OrderUoWFactory) ApplyOrderDiscountCommandHandler {
	return ApplyOrderDiscountCommandHandler{uowFactory: uowFactory}
}

// Handle applies the discount.
func (h *ApplyOrderDiscountCommandHandler) Handle(ctx context.Context, cmd ApplyOrderDiscountCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.ApplyOrderDiscount(cmd.Description(), cmd.DiscountType(), cmd.Value(), cmd.Actor())
	})
}
