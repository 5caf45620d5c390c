package order

import (
	"fmt"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Bounds for seat and course assignment. Seat and course numbers are
// 1-based; zero means unset.
const (
	maxSeatNumber   = 100
	maxCourseNumber = 20
)

// Modifier is an addition or substitution attached to a line, priced per
// unit of the modifier (e.g. "extra cheese" x2).
type Modifier struct {
	id       kernel.UUID
	name     string
	price    kernel.Money
	quantity int
}

// NewModifier creates a modifier with validation: the name must be non-empty,
// the price non-negative and the quantity positive.
func NewModifier(name string, price kernel.Money, quantity int) (Modifier, error) {
	if name == "" {
		return Modifier{}, errs.NewValidationError("modifier name")
	}
	if price.IsNegative() {
		return Modifier{}, errs.NewValidationErrorWithCause("modifier price",
			fmt.Errorf("%s is negative", price))
	}
	if quantity <= 0 {
		return Modifier{}, errs.NewValidationErrorWithCause("modifier quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Modifier{
		id:       kernel.NewUUID(),
		name:     name,
		price:    price,
		quantity: quantity,
	}, nil
}

// RestoreModifier reconstructs a modifier from persistence without
// revalidating business rules.
func RestoreModifier(id kernel.UUID, name string, price kernel.Money, quantity int) Modifier {
	return Modifier{id: id, name: name, price: price, quantity: quantity}
}

// ID returns the modifier's unique identifier.
func (m Modifier) ID() kernel.UUID { return m.id }

// Name returns the modifier's display name.
func (m Modifier) Name() string { return m.name }

// Price returns the per-unit price of the modifier.
func (m Modifier) Price() kernel.Money { return m.price }

// Quantity returns how many units of the modifier apply.
func (m Modifier) Quantity() int { return m.quantity }

// Total returns price x quantity for the modifier.
func (m Modifier) Total() kernel.Money {
	return m.price.MulInt(m.quantity)
}

// Line is one orderable item within an order: a menu item reference with
// quantity, pricing, tax rate, modifiers, kitchen-routing state and an
// optional line-level discount.
//
// Invariant: Total() = unitPrice x quantity + the sum of modifier totals.
// Voided lines are excluded from the order's subtotal and tax.
type Line struct {
	id             kernel.UUID
	menuItemRef    string
	name           string
	quantity       int
	unitPrice      kernel.Money
	originalPrice  *kernel.Money
	overrideReason string
	taxRate        decimal.Decimal
	modifiers      []Modifier
	seat           int
	course         int
	discount       kernel.Money
	discountReason string
	status         LineStatus
}

// NewLine creates a line in Pending status.
//
// Validation: name must be non-empty, quantity positive, unit price
// non-negative and tax rate non-negative. The menu item reference is
// opaque to the aggregate and may be empty for open-keyed items.
func NewLine(menuItemRef, name string, quantity int, unitPrice kernel.Money, taxRate decimal.Decimal, modifiers []Modifier) (*Line, error) {
	if name == "" {
		return nil, errs.NewValidationError("name")
	}
	if quantity <= 0 {
		return nil, errs.NewValidationErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPrice.IsNegative() {
		return nil, errs.NewValidationErrorWithCause("unitPrice",
			fmt.Errorf("%s is negative", unitPrice))
	}
	if taxRate.IsNegative() {
		return nil, errs.NewValidationErrorWithCause("taxRate",
			fmt.Errorf("%s is negative", taxRate))
	}

	return &Line{
		id:          kernel.NewUUID(),
		menuItemRef: menuItemRef,
		name:        name,
		quantity:    quantity,
		unitPrice:   unitPrice,
		taxRate:     taxRate,
		modifiers:   append([]Modifier(nil), modifiers...),
		discount:    kernel.ZeroMoney(),
		status:      LinePending,
	}, nil
}

// RestoreLine reconstructs a line from persistence.
func RestoreLine(
	id kernel.UUID,
	menuItemRef, name string,
	quantity int,
	unitPrice kernel.Money,
	originalPrice *kernel.Money,
	overrideReason string,
	taxRate decimal.Decimal,
	modifiers []Modifier,
	seat, course int,
	discount kernel.Money,
	discountReason string,
	status LineStatus,
) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &Line{
		id:             id,
		menuItemRef:    menuItemRef,
		name:           name,
		quantity:       quantity,
		unitPrice:      unitPrice,
		originalPrice:  originalPrice,
		overrideReason: overrideReason,
		taxRate:        taxRate,
		modifiers:      append([]Modifier(nil), modifiers...),
		seat:           seat,
		course:         course,
		discount:       discount,
		discountReason: discountReason,
		status:         status,
	}, nil
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID { return l.id }

// MenuItemRef returns the opaque menu item reference.
func (l *Line) MenuItemRef() string { return l.menuItemRef }

// Name returns the line's display name.
func (l *Line) Name() string { return l.name }

// Quantity returns the ordered quantity.
func (l *Line) Quantity() int { return l.quantity }

// UnitPrice returns the current unit price, including any override.
func (l *Line) UnitPrice() kernel.Money { return l.unitPrice }

// OriginalPrice returns the pre-override unit price, or nil if the price
// was never overridden.
func (l *Line) OriginalPrice() *kernel.Money { return l.originalPrice }

// OverrideReason returns the reason recorded with the last price override.
func (l *Line) OverrideReason() string { return l.overrideReason }

// TaxRate returns the fractional tax rate, e.g. 0.10 for 10%.
func (l *Line) TaxRate() decimal.Decimal { return l.taxRate }

// Modifiers returns a copy of the line's modifiers.
func (l *Line) Modifiers() []Modifier {
	return append([]Modifier(nil), l.modifiers...)
}

// Seat returns the assigned seat number, or 0 if unset.
func (l *Line) Seat() int { return l.seat }

// Course returns the assigned course number, or 0 if unset.
func (l *Line) Course() int { return l.course }

// Discount returns the line-level discount amount.
func (l *Line) Discount() kernel.Money { return l.discount }

// DiscountReason returns the reason recorded with the line discount.
func (l *Line) DiscountReason() string { return l.discountReason }

// Status returns the line's kitchen-routing status.
func (l *Line) Status() LineStatus { return l.status }

// IsVoided reports whether the line has been voided.
func (l *Line) IsVoided() bool { return l.status == LineVoided }

// Total returns the line's gross total: unit price x quantity plus all
// modifier totals. Discounts never reduce this value; tax is always computed
// on it.
func (l *Line) Total() kernel.Money {
	total := l.unitPrice.MulInt(l.quantity)
	for _, m := range l.modifiers {
		total = total.Add(m.Total())
	}
	return total
}

// Tax returns the tax owed on the line's gross total at the line's rate,
// rounded to two decimal places.
func (l *Line) Tax() kernel.Money {
	return l.Total().MulRate(l.taxRate)
}

func (l *Line) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValidationErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setSeat(seat int) error {
	if seat < 1 || seat > maxSeatNumber {
		return errs.NewValidationErrorWithCause("seatNumber",
			fmt.Errorf("%d is not between 1 and %d", seat, maxSeatNumber))
	}
	l.seat = seat
	return nil
}

func (l *Line) setCourse(course int) error {
	if course < 1 || course > maxCourseNumber {
		return errs.NewValidationErrorWithCause("courseNumber",
			fmt.Errorf("%d is not between 1 and %d", course, maxCourseNumber))
	}
	l.course = course
	return nil
}

// overridePrice replaces the unit price, preserving the first pre-override
// price in originalPrice.
func (l *Line) overridePrice(newPrice kernel.Money, reason string) error {
	if reason == "" {
		return errs.NewValidationError("reason")
	}
	if newPrice.IsNegative() {
		return errs.NewValidationErrorWithCause("newPrice",
			fmt.Errorf("%s is negative", newPrice))
	}

	if l.originalPrice == nil {
		prev := l.unitPrice
		l.originalPrice = &prev
	}
	l.unitPrice = newPrice
	l.overrideReason = reason
	return nil
}

// applyDiscount sets the line discount, capping the computed amount at the
// line's own gross total.
func (l *Line) applyDiscount(amount kernel.Money, reason string) {
	l.discount = amount.Min(l.Total())
	l.discountReason = reason
}

// clearDiscount removes any line-level discount.
func (l *Line) clearDiscount() {
	l.discount = kernel.ZeroMoney()
	l.discountReason = ""
}

// clone returns a deep copy of the line. Used when draining lines out of a
// source order during a merge so the two aggregates never share state.
func (l *Line) clone() *Line {
	dup := *l
	dup.modifiers = append([]Modifier(nil), l.modifiers...)
	if l.originalPrice != nil {
		prev := *l.originalPrice
		dup.originalPrice = &prev
	}
	return &dup
}
