package order

import "time"

// Event is one immutable record in the order's append-only audit log.
// Events carry a monotonic per-order sequence number so state can be
// reconstructed deterministically and cross-actor operations (merges) can
// be reconciled after partial failures.
type Event struct {
	seq        int64
	name       string
	actor      string
	detail     string
	occurredAt time.Time
}

// RestoreEvent reconstructs an event from persistence.
func RestoreEvent(seq int64, name, actor, detail string, occurredAt time.Time) Event {
	return Event{seq: seq, name: name, actor: actor, detail: detail, occurredAt: occurredAt}
}

// Seq returns the monotonic per-order sequence number.
func (e Event) Seq() int64 { return e.seq }

// Name returns the event name, e.g. "order.line_added".
func (e Event) Name() string { return e.name }

// Actor returns who triggered the event.
func (e Event) Actor() string { return e.actor }

// Detail returns the human-readable event detail.
func (e Event) Detail() string { return e.detail }

// OccurredAt returns when the event was recorded.
func (e Event) OccurredAt() time.Time { return e.occurredAt }

// Event names recorded by the aggregate. Stable identifiers: consumers
// reconcile merges and build projections from these.
const (
	EventOpened          = "order.opened"
	EventLineAdded       = "order.line_added"
	EventLineUpdated     = "order.line_updated"
	EventLineVoided      = "order.line_voided"
	EventLineRemoved     = "order.line_removed"
	EventPriceOverridden = "order.price_overridden"
	EventSeatAssigned    = "order.seat_assigned"
	EventDiscountApplied = "order.discount_applied"
	EventDiscountRemoved = "order.discount_removed"
	EventChargeAdded     = "order.service_charge_added"
	EventItemsHeld       = "order.items_held"
	EventItemsReleased   = "order.items_released"
	EventCourseAssigned  = "order.course_assigned"
	EventItemsFired      = "order.items_fired"
	EventPaymentRecorded = "order.payment_recorded"
	EventPaymentRemoved  = "order.payment_removed"
	EventClosed          = "order.closed"
	EventVoided          = "order.voided"
	EventReopened        = "order.reopened"
	EventDrained         = "order.drained"
	EventMerged          = "order.merged"
)
