package order

import (
	"fmt"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes how a discount value is interpreted.
type DiscountType string

const (
	// Percentage interprets the value as a percentage of the base amount,
	// e.g. 10 means 10%.
	Percentage DiscountType = "Percentage"

	// FixedAmount interprets the value as an absolute monetary amount.
	FixedAmount DiscountType = "FixedAmount"
)

// ParseDiscountType converts a string into a DiscountType, rejecting
// unknown values.
func ParseDiscountType(s string) (DiscountType, error) {
	t := DiscountType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks that the discount type is known.
func (t DiscountType) Validate() error {
	switch t {
	case Percentage, FixedAmount:
		return nil
	default:
		return errs.NewValidationErrorWithCause("discount type", fmt.Errorf("%q is not a valid discount type", string(t)))
	}
}

// String implements fmt.Stringer.
func (t DiscountType) String() string {
	return string(t)
}

// OrderDiscount is an order-level discount applied against the order's
// subtotal. Multiple discounts of any type stack additively and no upper
// bound is enforced on stacking.
type OrderDiscount struct {
	description string
	dtype       DiscountType
	value       decimal.Decimal
	appliedBy   string
}

// NewOrderDiscount creates an order-level discount with validation:
// the description must be non-empty, the type known and the value
// non-negative.
func NewOrderDiscount(description string, dtype DiscountType, value decimal.Decimal, appliedBy string) (OrderDiscount, error) {
	if description == "" {
		return OrderDiscount{}, errs.NewValidationError("description")
	}
	if err := dtype.Validate(); err != nil {
		return OrderDiscount{}, err
	}
	if value.IsNegative() {
		return OrderDiscount{}, errs.NewValidationErrorWithCause("value",
			fmt.Errorf("%s is negative", value))
	}

	return OrderDiscount{
		description: description,
		dtype:       dtype,
		value:       value,
		appliedBy:   appliedBy,
	}, nil
}

// Description returns the discount's human-readable description.
func (d OrderDiscount) Description() string { return d.description }

// Type returns the discount type.
func (d OrderDiscount) Type() DiscountType { return d.dtype }

// Value returns the raw discount value (a percentage or a fixed amount,
// depending on the type).
func (d OrderDiscount) Value() decimal.Decimal { return d.value }

// AppliedBy returns the actor who applied the discount.
func (d OrderDiscount) AppliedBy() string { return d.appliedBy }

// AmountFor computes the monetary discount against the given subtotal.
// Percentage discounts are rounded to two decimal places.
func (d OrderDiscount) AmountFor(subtotal kernel.Money) kernel.Money {
	if d.dtype == Percentage {
		return subtotal.Percent(d.value)
	}
	return kernel.MoneyFromDecimal(d.value.Round(2))
}

// discountAmountFor computes a discount of the given type and value against
// a base amount. Shared by order-level and line-level discount computation.
func discountAmountFor(dtype DiscountType, value decimal.Decimal, base kernel.Money) kernel.Money {
	if dtype == Percentage {
		return base.Percent(value)
	}
	return kernel.MoneyFromDecimal(value.Round(2))
}
