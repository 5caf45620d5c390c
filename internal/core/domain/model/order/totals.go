package order

import (
	"tableside/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Totals is the set of derived monetary values for an order. It is a value
// object produced by the pricing engine; the aggregate replaces it wholesale
// after every mutation and never edits individual fields.
type Totals struct {
	subtotal           kernel.Money
	discountTotal      kernel.Money
	taxTotal           kernel.Money
	serviceChargeTotal kernel.Money
	grandTotal         kernel.Money
	paidAmount         kernel.Money
	tipTotal           kernel.Money
	balanceDue         kernel.Money
}

// Subtotal returns the sum of gross line totals over non-voided lines,
// computed from current unit prices (including overrides), independent of
// any discount.
func (t Totals) Subtotal() kernel.Money { return t.subtotal }

// DiscountTotal returns the sum of line-level discounts plus order-level
// discounts, each order-level discount computed against the current
// subtotal. Discounts stack additively.
func (t Totals) DiscountTotal() kernel.Money { return t.discountTotal }

// TaxTotal returns per-line tax on gross line totals plus tax on taxable
// service charges at the covers-weighted average rate.
func (t Totals) TaxTotal() kernel.Money { return t.taxTotal }

// ServiceChargeTotal returns the sum of all service charge amounts.
func (t Totals) ServiceChargeTotal() kernel.Money { return t.serviceChargeTotal }

// GrandTotal returns subtotal - discounts + tax + service charges.
func (t Totals) GrandTotal() kernel.Money { return t.grandTotal }

// PaidAmount returns the sum of recorded payment amounts (tips excluded).
func (t Totals) PaidAmount() kernel.Money { return t.paidAmount }

// TipTotal returns the sum of recorded tips.
func (t Totals) TipTotal() kernel.Money { return t.tipTotal }

// BalanceDue returns grand total minus paid amount. Negative when the order
// is overpaid.
func (t Totals) BalanceDue() kernel.Money { return t.balanceDue }

// computeTotals is the pricing and tax engine: a pure function of the
// current line, discount, service charge and payment collections. Running
// it twice on the same inputs always yields the same totals, which is what
// makes event replay and post-crash reconstruction deterministic.
//
// Rules, in order:
//
//  1. Subtotal: sum of gross line totals (unit price x quantity + modifiers)
//     over non-voided lines. Discounts never feed into this.
//  2. Discount total: line discounts (already capped per line) plus each
//     order-level discount evaluated against the subtotal, the sum capped
//     at the subtotal. Percentage results round to two decimal places.
//  3. Tax: per line, gross total x line rate, rounded per line. Taxable
//     service charges are taxed at the covers-weighted average rate
//     sum(lineTotal_i x rate_i) / sum(lineTotal_i) over non-voided lines,
//     rounded only at the final multiplication.
//  4. Grand total = subtotal - discount total + tax + service charges,
//     non-negative by construction because of the discount caps.
//  5. Balance due = grand total - paid amount; tips never reduce it.
func computeTotals(lines []*Line, discounts []OrderDiscount, charges []ServiceCharge, payments []Payment) Totals {
	subtotal := kernel.ZeroMoney()
	lineDiscounts := kernel.ZeroMoney()
	lineTax := kernel.ZeroMoney()

	// Weighted-rate accumulators kept at full precision; rounding happens
	// once per derived value, not per step.
	weightedRateNumerator := decimal.Zero
	weightedRateBase := decimal.Zero

	for _, line := range lines {
		if line.IsVoided() {
			continue
		}

		gross := line.Total()
		subtotal = subtotal.Add(gross)
		lineDiscounts = lineDiscounts.Add(line.Discount().Min(gross))
		lineTax = lineTax.Add(line.Tax())

		weightedRateNumerator = weightedRateNumerator.Add(gross.Decimal().Mul(line.TaxRate()))
		weightedRateBase = weightedRateBase.Add(gross.Decimal())
	}

	discountTotal := lineDiscounts
	for _, d := range discounts {
		discountTotal = discountTotal.Add(d.AmountFor(subtotal))
	}
	discountTotal = discountTotal.Min(subtotal)

	weightedRate := decimal.Zero
	if weightedRateBase.IsPositive() {
		weightedRate = weightedRateNumerator.Div(weightedRateBase)
	}

	chargeTotal := kernel.ZeroMoney()
	chargeTax := kernel.ZeroMoney()
	for _, c := range charges {
		chargeTotal = chargeTotal.Add(c.Amount())
		if c.IsTaxable() {
			chargeTax = chargeTax.Add(c.Amount().MulRate(weightedRate))
		}
	}

	taxTotal := lineTax.Add(chargeTax)
	grandTotal := subtotal.Sub(discountTotal).Add(taxTotal).Add(chargeTotal)

	paid := kernel.ZeroMoney()
	tips := kernel.ZeroMoney()
	for _, p := range payments {
		paid = paid.Add(p.Amount())
		tips = tips.Add(p.Tip())
	}

	return Totals{
		subtotal:           subtotal,
		discountTotal:      discountTotal,
		taxTotal:           taxTotal,
		serviceChargeTotal: chargeTotal,
		grandTotal:         grandTotal,
		paidAmount:         paid,
		tipTotal:           tips,
		balanceDue:         grandTotal.Sub(paid),
	}
}
