package order

import (
	"errors"
	"fmt"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root owning one order's full lifecycle: line items,
// modifiers, discounts, tax computation, payment reconciliation, kitchen
// routing and cross-order merges.
//
// Order is a single-writer actor's state: all commands against one OrderRef
// are applied strictly sequentially by the dispatcher, so no method here
// takes a lock. Every mutating method follows validate-then-mutate ordering:
// a failed command leaves the state byte-for-byte unchanged. After any
// successful mutation the pricing engine recomputes all derived totals, so
// the §invariants on totals hold between every pair of commands.
type Order struct {
	ref        kernel.OrderRef
	orderType  Type
	status     Status
	guestCount int

	lines     []*Line
	discounts []OrderDiscount
	payments  []Payment
	charges   []ServiceCharge

	totals Totals

	closedAt   *time.Time
	voidedAt   *time.Time
	voidReason string

	// drainedBy is set when this order was drained into another order by a
	// merge; a retried drain from the same target returns the same snapshot.
	drainedBy *kernel.OrderRef

	// mergedFrom lists source OrderRef keys already merged into this order,
	// making the merge append step idempotent.
	mergedFrom []string

	events  []Event
	lastSeq int64

	isConstructed bool
}

// NewOrder opens a new order in Open status.
//
// Validation: the ref must be constructed, the type known and the guest
// count positive.
func NewOrder(ref kernel.OrderRef, orderType Type, guestCount int) (*Order, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if err := orderType.Validate(); err != nil {
		return nil, err
	}
	if guestCount <= 0 {
		return nil, errs.NewValidationErrorWithCause("guestCount",
			fmt.Errorf("%d is not greater than 0", guestCount))
	}

	o := &Order{
		ref:           ref,
		orderType:     orderType,
		status:        Open,
		guestCount:    guestCount,
		isConstructed: true,
	}
	o.recompute()
	o.record(EventOpened, "", fmt.Sprintf("%s order opened for %d guests", orderType, guestCount))
	return o, nil
}

// RestoreOrder reconstructs an order from persistence. Totals are not
// restored but recomputed: they are a deterministic function of the restored
// collections, so recomputation reproduces exactly the persisted state.
func RestoreOrder(
	ref kernel.OrderRef,
	orderType Type,
	status Status,
	guestCount int,
	lines []*Line,
	discounts []OrderDiscount,
	payments []Payment,
	charges []ServiceCharge,
	closedAt, voidedAt *time.Time,
	voidReason string,
	drainedBy *kernel.OrderRef,
	mergedFrom []string,
	events []Event,
) (*Order, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if err := orderType.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if guestCount <= 0 {
		return nil, errs.NewValidationErrorWithCause("guestCount",
			fmt.Errorf("%d is not greater than 0", guestCount))
	}

	var lastSeq int64
	if len(events) > 0 {
		lastSeq = events[len(events)-1].Seq()
	}

	o := &Order{
		ref:           ref,
		orderType:     orderType,
		status:        status,
		guestCount:    guestCount,
		lines:         append([]*Line(nil), lines...),
		discounts:     append([]OrderDiscount(nil), discounts...),
		payments:      append([]Payment(nil), payments...),
		charges:       append([]ServiceCharge(nil), charges...),
		closedAt:      closedAt,
		voidedAt:      voidedAt,
		voidReason:    voidReason,
		drainedBy:     drainedBy,
		mergedFrom:    append([]string(nil), mergedFrom...),
		events:        append([]Event(nil), events...),
		lastSeq:       lastSeq,
		isConstructed: true,
	}
	o.recompute()
	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Ref returns the order's composite actor address.
func (o *Order) Ref() kernel.OrderRef { return o.ref }

// Type returns the order's fulfillment type.
func (o *Order) Type() Type { return o.orderType }

// Status returns the order's lifecycle status.
func (o *Order) Status() Status { return o.status }

// GuestCount returns the number of guests on the order.
func (o *Order) GuestCount() int { return o.guestCount }

// Lines returns the order's lines in insertion order. The returned slice is
// a copy; the Line pointers are the aggregate's own entities.
func (o *Order) Lines() []*Line { return append([]*Line(nil), o.lines...) }

// Discounts returns the order-level discounts.
func (o *Order) Discounts() []OrderDiscount { return append([]OrderDiscount(nil), o.discounts...) }

// Payments returns the recorded payments.
func (o *Order) Payments() []Payment { return append([]Payment(nil), o.payments...) }

// ServiceCharges returns the service charges.
func (o *Order) ServiceCharges() []ServiceCharge { return append([]ServiceCharge(nil), o.charges...) }

// Totals returns the derived totals as of the last mutation.
func (o *Order) Totals() Totals { return o.totals }

// ClosedAt returns when the order was closed, or nil.
func (o *Order) ClosedAt() *time.Time { return o.closedAt }

// VoidedAt returns when the order was voided, or nil.
func (o *Order) VoidedAt() *time.Time { return o.voidedAt }

// VoidReason returns the reason recorded when the order was voided.
func (o *Order) VoidReason() string { return o.voidReason }

// DrainedBy returns the target ref this order was drained into, or nil.
func (o *Order) DrainedBy() *kernel.OrderRef { return o.drainedBy }

// MergedFrom returns the keys of source orders already merged in.
func (o *Order) MergedFrom() []string { return append([]string(nil), o.mergedFrom...) }

// Events returns the append-only event log.
func (o *Order) Events() []Event { return append([]Event(nil), o.events...) }

// recompute runs the pricing engine over the current collections.
func (o *Order) recompute() {
	o.totals = computeTotals(o.lines, o.discounts, o.charges, o.payments)
}

// record appends an event with the next monotonic sequence number.
func (o *Order) record(name, actor, detail string) {
	o.lastSeq++
	o.events = append(o.events, Event{
		seq:        o.lastSeq,
		name:       name,
		actor:      actor,
		detail:     detail,
		occurredAt: time.Now().UTC(),
	})
}

// requireActive rejects mutations on closed or voided orders.
func (o *Order) requireActive() error {
	if !o.status.IsActive() {
		return errs.NewInvalidStateError(
			fmt.Sprintf("order is %s and cannot be modified", o.status),
		)
	}
	return nil
}

// findLine locates a line by id, returning a NotFoundError if absent.
func (o *Order) findLine(lineID kernel.UUID) (*Line, error) {
	for _, l := range o.lines {
		if l.ID().IsEqual(lineID) {
			return l, nil
		}
	}
	return nil, errs.NewNotFoundError("lineId", lineID.String())
}

// AddLine appends a new line in Pending status and recomputes totals.
// Returns the new line's id.
func (o *Order) AddLine(menuItemRef, name string, quantity int, unitPrice kernel.Money, taxRate decimal.Decimal, modifiers []Modifier, seat int) (kernel.UUID, error) {
	if err := o.requireActive(); err != nil {
		return kernel.UUID{}, err
	}

	line, err := NewLine(menuItemRef, name, quantity, unitPrice, taxRate, modifiers)
	if err != nil {
		return kernel.UUID{}, err
	}
	if seat != 0 {
		if err = line.setSeat(seat); err != nil {
			return kernel.UUID{}, err
		}
	}

	o.lines = append(o.lines, line)
	o.recompute()
	o.record(EventLineAdded, "", fmt.Sprintf("%d x %s added", quantity, name))
	return line.ID(), nil
}

// UpdateLine changes the quantity, seat or course of an existing line.
// Nil fields are left untouched. Voided lines cannot be updated.
func (o *Order) UpdateLine(lineID kernel.UUID, quantity, seat, course *int) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	if line.IsVoided() {
		return errs.NewInvalidStateError("cannot update a voided line")
	}

	// Validate everything before touching the line so a partially-invalid
	// update leaves it unchanged.
	if quantity != nil && *quantity <= 0 {
		return errs.NewValidationErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", *quantity))
	}
	if seat != nil && (*seat < 1 || *seat > maxSeatNumber) {
		return errs.NewValidationErrorWithCause("seatNumber",
			fmt.Errorf("%d is not between 1 and %d", *seat, maxSeatNumber))
	}
	if course != nil && (*course < 1 || *course > maxCourseNumber) {
		return errs.NewValidationErrorWithCause("courseNumber",
			fmt.Errorf("%d is not between 1 and %d", *course, maxCourseNumber))
	}

	if quantity != nil {
		_ = line.setQuantity(*quantity)
	}
	if seat != nil {
		_ = line.setSeat(*seat)
	}
	if course != nil {
		_ = line.setCourse(*course)
	}

	o.recompute()
	o.record(EventLineUpdated, "", fmt.Sprintf("line %s updated", line.Name()))
	return nil
}

// VoidLine marks a line Voided, removing it from subtotal, tax and any
// hold/course grouping. Voiding an already-voided line is an idempotent
// no-op; voiding a fired line is rejected.
func (o *Order) VoidLine(lineID kernel.UUID, actor, reason string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	if line.IsVoided() {
		return nil
	}

	newStatus, err := line.status.Void()
	if err != nil {
		return err
	}

	line.status = newStatus
	o.recompute()
	o.record(EventLineVoided, actor, fmt.Sprintf("%s voided: %s", line.Name(), reason))
	return nil
}

// RemoveLine physically removes a line from the order.
func (o *Order) RemoveLine(lineID kernel.UUID) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	for i, l := range o.lines {
		if l.ID().IsEqual(lineID) {
			name := l.Name()
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			o.recompute()
			o.record(EventLineRemoved, "", fmt.Sprintf("%s removed", name))
			return nil
		}
	}
	return errs.NewNotFoundError("lineId", lineID.String())
}

// OverridePrice replaces a line's unit price, preserving the pre-override
// price in OriginalPrice on first override. Requires a non-empty reason and
// a non-negative new price.
func (o *Order) OverridePrice(lineID kernel.UUID, newPrice kernel.Money, reason, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}

	if err = line.overridePrice(newPrice, reason); err != nil {
		return err
	}

	o.recompute()
	o.record(EventPriceOverridden, actor,
		fmt.Sprintf("%s price set to %s: %s", line.Name(), newPrice, reason))
	return nil
}

// AssignSeat assigns a seat number to a line. Seat numbers are 1-based;
// voided lines cannot be reseated.
func (o *Order) AssignSeat(lineID kernel.UUID, seatNumber int, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	if line.IsVoided() {
		return errs.NewInvalidStateError("cannot assign a seat to a voided line")
	}

	if err = line.setSeat(seatNumber); err != nil {
		return err
	}

	o.recompute()
	o.record(EventSeatAssigned, actor,
		fmt.Sprintf("%s assigned to seat %d", line.Name(), seatNumber))
	return nil
}

// ApplyOrderDiscount appends an order-level discount. Discounts stack
// additively with no upper bound on stacking.
func (o *Order) ApplyOrderDiscount(description string, dtype DiscountType, value decimal.Decimal, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	discount, err := NewOrderDiscount(description, dtype, value, actor)
	if err != nil {
		return err
	}

	o.discounts = append(o.discounts, discount)
	o.recompute()
	o.record(EventDiscountApplied, actor,
		fmt.Sprintf("order discount %q (%s %s)", description, dtype, value))
	return nil
}

// ApplyLineDiscount sets a line-level discount, capped at the line's own
// gross total. The target line must not be voided.
func (o *Order) ApplyLineDiscount(lineID kernel.UUID, dtype DiscountType, value decimal.Decimal, actor, reason string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}
	if line.IsVoided() {
		return errs.NewInvalidStateError("cannot discount a voided line")
	}
	if err = dtype.Validate(); err != nil {
		return err
	}
	if value.IsNegative() {
		return errs.NewValidationErrorWithCause("value",
			fmt.Errorf("%s is negative", value))
	}

	amount := discountAmountFor(dtype, value, line.Total())
	line.applyDiscount(amount, reason)
	o.recompute()
	o.record(EventDiscountApplied, actor,
		fmt.Sprintf("line discount %s on %s: %s", line.Discount(), line.Name(), reason))
	return nil
}

// RemoveLineDiscount clears a line's discount and recomputes totals.
func (o *Order) RemoveLineDiscount(lineID kernel.UUID, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	line, err := o.findLine(lineID)
	if err != nil {
		return err
	}

	line.clearDiscount()
	o.recompute()
	o.record(EventDiscountRemoved, actor, fmt.Sprintf("line discount cleared on %s", line.Name()))
	return nil
}

// AddServiceCharge appends a flat service charge. Taxable charges are taxed
// at the covers-weighted average of the lines' tax rates.
func (o *Order) AddServiceCharge(name string, amount kernel.Money, taxable bool, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	charge, err := NewServiceCharge(name, amount, taxable)
	if err != nil {
		return err
	}

	o.charges = append(o.charges, charge)
	o.recompute()
	o.record(EventChargeAdded, actor, fmt.Sprintf("service charge %q of %s", name, amount))
	return nil
}

// RecordPayment appends a payment and refreshes the paid/balance totals.
// A zero-amount payment is rejected while money is still owed; the status
// becomes Paid exactly when the balance due drops to zero or below.
func (o *Order) RecordPayment(paymentID kernel.UUID, amount, tip kernel.Money, method string) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	payment, err := NewPayment(paymentID, amount, tip, method)
	if err != nil {
		return err
	}
	for _, p := range o.payments {
		if p.ID().IsEqual(paymentID) {
			return errs.NewAlreadyExistsError("paymentId", paymentID.String())
		}
	}
	if amount.IsZero() && o.totals.BalanceDue().IsPositive() {
		return errs.NewValidationErrorWithCause("amount",
			errors.New("zero payment while balance is due"))
	}

	o.payments = append(o.payments, payment)
	o.recompute()
	o.refreshPaymentStatus()
	o.record(EventPaymentRecorded, "",
		fmt.Sprintf("%s paid by %s (tip %s)", amount, method, tip))
	return nil
}

// RemovePayment removes a payment by id and reverts the status to Open if
// the balance becomes positive again.
func (o *Order) RemovePayment(paymentID kernel.UUID) error {
	if err := o.requireActive(); err != nil {
		return err
	}

	for i, p := range o.payments {
		if p.ID().IsEqual(paymentID) {
			o.payments = append(o.payments[:i], o.payments[i+1:]...)
			o.recompute()
			o.refreshPaymentStatus()
			o.record(EventPaymentRemoved, "", fmt.Sprintf("payment %s removed", paymentID))
			return nil
		}
	}
	return errs.NewNotFoundError("paymentId", paymentID.String())
}

// refreshPaymentStatus flips Open<->Paid based on the balance due. Only
// payment-driven mutations (record, remove, merge) move the order between
// Open and Paid; a freshly opened empty order stays Open.
func (o *Order) refreshPaymentStatus() {
	switch {
	case o.status == Open && len(o.payments) > 0 && !o.totals.BalanceDue().IsPositive():
		o.status = Paid
	case o.status == Paid && o.totals.BalanceDue().IsPositive():
		o.status = Open
	}
}

// Close finalizes the order. Valid only while Open or Paid; an outstanding
// balance blocks closing unless allowUnsettled is set (manager override).
func (o *Order) Close(actor string, allowUnsettled bool) error {
	if o.totals.BalanceDue().IsPositive() && !allowUnsettled {
		return errs.NewInvalidStateError(
			fmt.Sprintf("cannot close order with outstanding balance of %s", o.totals.BalanceDue()),
		)
	}

	newStatus, err := o.status.Close()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.closedAt = &now
	o.record(EventClosed, actor, "order closed")
	return nil
}

// Void cancels the order with a recorded reason. Valid from Open, Paid and
// Closed.
func (o *Order) Void(actor, reason string) error {
	if reason == "" {
		return errs.NewValidationError("reason")
	}

	newStatus, err := o.status.Void()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.voidedAt = &now
	o.voidReason = reason
	o.record(EventVoided, actor, reason)
	return nil
}

// Reopen returns a Closed or Voided order to Open, clearing the close and
// void bookkeeping. Any other status is rejected, including a
// partially-paid Open order.
func (o *Order) Reopen(actor string) error {
	newStatus, err := o.status.Reopen()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.closedAt = nil
	o.voidedAt = nil
	o.voidReason = ""
	o.drainedBy = nil
	o.record(EventReopened, actor, "order reopened")
	return nil
}
