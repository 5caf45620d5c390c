package order

import (
	"fmt"

	"tableside/internal/pkg/errs"
)

// LineStatus represents the kitchen-routing state of a single line.
//
// State transitions:
//
//	Pending ⇄ Held
//	Pending ──> Fired
//	any non-Fired ──> Voided (terminal for routing)
//
// Fired lines have already reached production and can no longer be held,
// released or voided.
type LineStatus int

const (
	// LineUnknown represents an invalid or undefined line status.
	LineUnknown LineStatus = iota

	// LinePending means the line has not been sent to the kitchen yet.
	LinePending

	// LineHeld means the line is withheld from the kitchen until released.
	LineHeld

	// LineFired means the line has been sent to the kitchen.
	LineFired

	// LineVoided means the line was cancelled. Voided lines are excluded
	// from totals, tax and hold summaries.
	LineVoided
)

func getLineStatusStrings() map[LineStatus]string {
	return map[LineStatus]string{
		LineUnknown: "Unknown",
		LinePending: "Pending",
		LineHeld:    "Held",
		LineFired:   "Fired",
		LineVoided:  "Voided",
	}
}

// ParseLineStatus converts a stored line status string back to a LineStatus.
func ParseLineStatus(s string) (LineStatus, error) {
	for status, str := range getLineStatusStrings() {
		if status != LineUnknown && str == s {
			return status, nil
		}
	}
	return LineUnknown, errs.NewValidationErrorWithCause("line status",
		fmt.Errorf("%q is not a valid line status", s))
}

// Validate checks if the LineStatus value is valid.
func (s LineStatus) Validate() error {
	if s != LinePending && s != LineHeld && s != LineFired && s != LineVoided {
		return errs.NewValidationErrorWithCause("line status", fmt.Errorf("%d is not a valid line status", s))
	}
	return nil
}

// String returns the human-readable name of the line status.
func (s LineStatus) String() string {
	if str, ok := getLineStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Hold transitions Pending -> Held.
func (s LineStatus) Hold() (LineStatus, error) {
	if s != LinePending {
		return 0, errs.NewInvalidStateError(
			fmt.Sprintf("cannot hold line in status %s", s),
		)
	}
	return LineHeld, nil
}

// Release transitions Held -> Pending.
func (s LineStatus) Release() (LineStatus, error) {
	if s != LineHeld {
		return 0, errs.NewInvalidStateError(
			fmt.Sprintf("cannot release line in status %s", s),
		)
	}
	return LinePending, nil
}

// Fire transitions Pending -> Fired.
// Held lines must be released before firing.
func (s LineStatus) Fire() (LineStatus, error) {
	if s != LinePending {
		return 0, errs.NewInvalidStateError(
			fmt.Sprintf("cannot fire line in status %s", s),
		)
	}
	return LineFired, nil
}

// Void transitions any non-Fired status -> Voided.
// Voiding an already voided line is treated as a no-op by the aggregate;
// voiding a fired line is rejected here.
func (s LineStatus) Void() (LineStatus, error) {
	if s == LineFired {
		return 0, errs.NewInvalidStateError("cannot void items already fired to the kitchen")
	}
	return LineVoided, nil
}
