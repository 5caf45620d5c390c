package order

import (
	"fmt"

	"tableside/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct business workflow.
//
// State transitions:
//
//	Open ──> Paid ──> Closed
//	  ▲ ◄────┘          │
//	  └─────────────────┘  (Reopen)
//	Open/Paid/Closed ──> Voided ──> Open (Reopen)
//
// Paid is entered exactly when the balance due reaches zero and reverts to
// Open when a payment removal leaves a positive balance again.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Open is the initial status. Lines, discounts and payments can be
	// freely mutated while an order is open.
	Open

	// Paid indicates the balance due has been settled in full.
	Paid

	// Closed indicates the order has been finalized, either explicitly or
	// by being drained into another order during a merge.
	Closed

	// Voided indicates the order was cancelled with a recorded reason.
	Voided
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "Unknown",
		Open:    "Open",
		Paid:    "Paid",
		Closed:  "Closed",
		Voided:  "Voided",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Open:   "Open",
		Paid:   "Paid",
		Closed: "Closed",
		Voided: "Voided",
	}
}

// ParseStatus converts a stored status string back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValidationErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are Open, Paid, Closed and Voided; Unknown (0) and any
// other values are invalid. Used when reconstructing orders from persistence.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValidationErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsActive reports whether the order still accepts mutating commands.
// Closed and Voided orders only accept Reopen.
func (s Status) IsActive() bool {
	return s == Open || s == Paid
}

// Close transitions the status to Closed.
//
// Valid transitions: Open -> Closed, Paid -> Closed.
// Closing an already Closed or Voided order is rejected.
func (s Status) Close() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewInvalidStateError(
			fmt.Sprintf("cannot close order in status %s", s),
		)
	}

	return Closed, nil
}

// Void transitions the status to Voided.
//
// Valid transitions: Open, Paid and Closed -> Voided.
// Voiding an already Voided order is rejected.
func (s Status) Void() (Status, error) {
	if s != Open && s != Paid && s != Closed {
		return 0, errs.NewInvalidStateError(
			fmt.Sprintf("cannot void order in status %s", s),
		)
	}

	return Voided, nil
}

// Reopen transitions the status back to Open.
//
// Valid transitions: Closed -> Open, Voided -> Open.
// Any other status, including a partially-paid Open order, is rejected.
func (s Status) Reopen() (Status, error) {
	if s != Closed && s != Voided {
		return 0, errs.NewInvalidStateError("can only reopen closed or voided orders")
	}

	return Open, nil
}
