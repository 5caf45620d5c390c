package order

import (
	"fmt"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
)

// Payment records money received against an order, split into the amount
// applied to the balance and a tip. Payments are recorded by callers after
// the external payment gateway settles; the aggregate knows nothing about
// gateway behavior.
type Payment struct {
	id         kernel.UUID
	amount     kernel.Money
	tip        kernel.Money
	method     string
	recordedAt time.Time
}

// NewPayment creates a payment with validation: the id must be constructed
// and amount and tip non-negative. Whether a zero-amount payment is
// acceptable depends on the order's balance and is enforced by the
// aggregate, not here.
func NewPayment(id kernel.UUID, amount, tip kernel.Money, method string) (Payment, error) {
	if err := id.Validate(); err != nil {
		return Payment{}, err
	}
	if amount.IsNegative() {
		return Payment{}, errs.NewValidationErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}
	if tip.IsNegative() {
		return Payment{}, errs.NewValidationErrorWithCause("tip",
			fmt.Errorf("%s is negative", tip))
	}

	return Payment{
		id:         id,
		amount:     amount,
		tip:        tip,
		method:     method,
		recordedAt: time.Now().UTC(),
	}, nil
}

// RestorePayment reconstructs a payment from persistence.
func RestorePayment(id kernel.UUID, amount, tip kernel.Money, method string, recordedAt time.Time) Payment {
	return Payment{id: id, amount: amount, tip: tip, method: method, recordedAt: recordedAt}
}

// ID returns the payment's unique identifier.
func (p Payment) ID() kernel.UUID { return p.id }

// Amount returns the amount applied against the balance due.
func (p Payment) Amount() kernel.Money { return p.amount }

// Tip returns the gratuity portion, which never reduces the balance due.
func (p Payment) Tip() kernel.Money { return p.tip }

// Method returns the payment method label, e.g. "card" or "cash".
func (p Payment) Method() string { return p.method }

// RecordedAt returns when the payment was recorded.
func (p Payment) RecordedAt() time.Time { return p.recordedAt }
