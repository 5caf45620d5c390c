package order

import (
	"fmt"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
)

// ServiceCharge is a flat charge added to the order, such as a banquet fee
// or mandatory gratuity. Taxable charges are taxed at the covers-weighted
// average of the non-voided lines' tax rates, since the charge is shared
// across items taxed at different rates.
type ServiceCharge struct {
	name    string
	amount  kernel.Money
	taxable bool
}

// NewServiceCharge creates a service charge with validation: the name must
// be non-empty and the amount non-negative.
func NewServiceCharge(name string, amount kernel.Money, taxable bool) (ServiceCharge, error) {
	if name == "" {
		return ServiceCharge{}, errs.NewValidationError("name")
	}
	if amount.IsNegative() {
		return ServiceCharge{}, errs.NewValidationErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}

	return ServiceCharge{name: name, amount: amount, taxable: taxable}, nil
}

// Name returns the charge's display name.
func (c ServiceCharge) Name() string { return c.name }

// Amount returns the flat charge amount.
func (c ServiceCharge) Amount() kernel.Money { return c.amount }

// IsTaxable reports whether the charge is subject to the weighted tax rate.
func (c ServiceCharge) IsTaxable() bool { return c.taxable }
