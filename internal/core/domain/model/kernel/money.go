package kernel

import (
	"fmt"

	"tableside/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every derived monetary value is
// rounded to. Fractional cents produced by percentage discounts and weighted
// tax rates are rounded half away from zero at each derived-total
// computation, so recomputation from the same inputs is deterministic.
const moneyScale = 2

// Money is an immutable value object for monetary amounts. It wraps
// shopspring/decimal so monetary arithmetic never goes through binary
// floating point. Negative values are representable: a balance due drops
// below zero when an order is overpaid.
//
// Operations that can produce fractional cents (MulRate, Percent) round to
// two decimal places; Add, Sub and MulInt preserve the scale of their
// operands.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns the zero monetary amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoneyFromFloat creates a Money from a float64, rounding to two decimal
// places. Used at API boundaries where amounts arrive as JSON numbers.
func NewMoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f).Round(moneyScale)}
}

// NewMoneyFromString parses a Money from its decimal string representation.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValidationErrorWithCause("amount", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return Money{amount: d.Round(moneyScale)}, nil
}

// MoneyFromDecimal wraps a raw decimal without rounding. For internal use by
// the pricing engine where intermediate precision must be preserved.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// MulRate returns m multiplied by a fractional rate (e.g. 0.10 for a 10% tax
// rate), rounded to two decimal places.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(moneyScale)}
}

// Percent returns the given percentage of m (e.g. Percent(10) is 10% of m),
// rounded to two decimal places.
func (m Money) Percent(p decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(p).Div(decimal.NewFromInt(100)).Round(moneyScale)}
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if m.amount.GreaterThan(other.amount) {
		return other
	}
	return m
}

// IsNegative reports whether m is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive reports whether m is above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// LessThanOrEqual reports whether m <= other.
func (m Money) LessThanOrEqual(other Money) bool {
	return m.amount.LessThanOrEqual(other.amount)
}

// IsEqual reports whether two amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as a float64 for serialization at API
// boundaries. The amount is already rounded to two decimal places, so the
// conversion is exact for realistic magnitudes.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the decimal string representation, e.g. "15.4".
func (m Money) String() string {
	return m.amount.String()
}
