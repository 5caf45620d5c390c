package order

import (
	"fmt"

	"tableside/internal/pkg/errs"
)

// Type classifies how an order is fulfilled. It only affects reporting and
// downstream routing; the aggregate applies the same rules to every type.
type Type string

const (
	DineIn   Type = "DineIn"
	TakeOut  Type = "TakeOut"
	Delivery Type = "Delivery"
	BarTab   Type = "BarTab"
)

// ParseType converts a string into a Type, rejecting unknown values.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks that the type is one of the known order types.
func (t Type) Validate() error {
	switch t {
	case DineIn, TakeOut, Delivery, BarTab:
		return nil
	default:
		return errs.NewValidationErrorWithCause("order type", fmt.Errorf("%q is not a valid order type", string(t)))
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
