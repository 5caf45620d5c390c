package order

import (
	"fmt"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
)

// Kitchen routing operations. Bulk operations filter their targets to lines
// in the required state: unknown ids and lines in the wrong state are
// skipped, and an empty filtered set fails the whole command. Valid targets
// transition together, so a fire command maps to exactly one kitchen ticket.

// HoldSummary is a read-only projection of the currently held lines.
// A line voided while held disappears from the summary automatically; hold
// membership is derived from line status, never tracked separately.
type HoldSummary struct {
	Count   int
	LineIDs []kernel.UUID
}

// GetHoldSummary returns the count and ids of currently held lines.
func (o *Order) GetHoldSummary() HoldSummary {
	summary := HoldSummary{LineIDs: make([]kernel.UUID, 0)}
	for _, l := range o.lines {
		if l.Status() == LineHeld {
			summary.Count++
			summary.LineIDs = append(summary.LineIDs, l.ID())
		}
	}
	return summary
}

// linesInStatus returns the subset of the given ids whose lines currently
// have the wanted status. Unknown ids are skipped.
func (o *Order) linesInStatus(lineIDs []kernel.UUID, wanted LineStatus) []*Line {
	matched := make([]*Line, 0, len(lineIDs))
	for _, id := range lineIDs {
		for _, l := range o.lines {
			if l.ID().IsEqual(id) && l.Status() == wanted {
				matched = append(matched, l)
				break
			}
		}
	}
	return matched
}

// HoldItems withholds the given pending lines from the kitchen.
// Fails with a ValidationError when no ids are given, and with an
// InvalidStateError when none of the ids is a pending line (covers both
// unknown ids and already fired/voided lines).
func (o *Order) HoldItems(lineIDs []kernel.UUID, actor, reason string) error {
	if err := o.requireActive(); err != nil {
		return err
	}
	if len(lineIDs) == 0 {
		return errs.NewValidationErrorWithCause("lineIds",
			fmt.Errorf("at least one line must be specified"))
	}

	targets := o.linesInStatus(lineIDs, LinePending)
	if len(targets) == 0 {
		return errs.NewInvalidStateError("no valid pending items to hold")
	}

	for _, l := range targets {
		l.status = LineHeld
	}
	o.record(EventItemsHeld, actor,
		fmt.Sprintf("%d items held: %s", len(targets), reason))
	return nil
}

// ReleaseItems returns the given held lines to Pending.
func (o *Order) ReleaseItems(lineIDs []kernel.UUID, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}
	if len(lineIDs) == 0 {
		return errs.NewValidationErrorWithCause("lineIds",
			fmt.Errorf("at least one line must be specified"))
	}

	targets := o.linesInStatus(lineIDs, LineHeld)
	if len(targets) == 0 {
		return errs.NewInvalidStateError("no valid held items to release")
	}

	for _, l := range targets {
		l.status = LinePending
	}
	o.record(EventItemsReleased, actor, fmt.Sprintf("%d items released", len(targets)))
	return nil
}

// SetItemCourse assigns a course number to the given non-voided lines so
// they can later be fired together.
func (o *Order) SetItemCourse(lineIDs []kernel.UUID, courseNumber int, actor string) error {
	if err := o.requireActive(); err != nil {
		return err
	}
	if len(lineIDs) == 0 {
		return errs.NewValidationErrorWithCause("lineIds",
			fmt.Errorf("at least one line must be specified"))
	}
	if courseNumber < 1 || courseNumber > maxCourseNumber {
		return errs.NewValidationErrorWithCause("courseNumber",
			fmt.Errorf("%d is not between 1 and %d", courseNumber, maxCourseNumber))
	}

	targets := make([]*Line, 0, len(lineIDs))
	for _, id := range lineIDs {
		for _, l := range o.lines {
			if l.ID().IsEqual(id) && !l.IsVoided() {
				targets = append(targets, l)
				break
			}
		}
	}
	if len(targets) == 0 {
		return errs.NewInvalidStateError("no valid items for course assignment")
	}

	for _, l := range targets {
		l.course = courseNumber
	}
	o.record(EventCourseAssigned, actor,
		fmt.Sprintf("%d items assigned to course %d", len(targets), courseNumber))
	return nil
}

// FireItems sends the given pending lines to the kitchen and returns the
// ids actually fired, for the kitchen ticket service.
func (o *Order) FireItems(lineIDs []kernel.UUID, actor string) ([]kernel.UUID, error) {
	if err := o.requireActive(); err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		return nil, errs.NewValidationErrorWithCause("lineIds",
			fmt.Errorf("at least one line must be specified"))
	}

	targets := o.linesInStatus(lineIDs, LinePending)
	if len(targets) == 0 {
		return nil, errs.NewInvalidStateError("no valid pending items to fire")
	}

	return o.fire(targets, actor), nil
}

// FireCourse sends all pending lines of the given course to the kitchen.
func (o *Order) FireCourse(courseNumber int, actor string) ([]kernel.UUID, error) {
	if err := o.requireActive(); err != nil {
		return nil, err
	}
	if courseNumber < 1 || courseNumber > maxCourseNumber {
		return nil, errs.NewValidationErrorWithCause("courseNumber",
			fmt.Errorf("%d is not between 1 and %d", courseNumber, maxCourseNumber))
	}

	targets := make([]*Line, 0)
	for _, l := range o.lines {
		if l.Status() == LinePending && l.Course() == courseNumber {
			targets = append(targets, l)
		}
	}
	if len(targets) == 0 {
		return nil, errs.NewInvalidStateError(
			fmt.Sprintf("no pending items in course %d", courseNumber))
	}

	return o.fire(targets, actor), nil
}

// FireAll sends every pending line to the kitchen.
func (o *Order) FireAll(actor string) ([]kernel.UUID, error) {
	if err := o.requireActive(); err != nil {
		return nil, err
	}

	targets := make([]*Line, 0)
	for _, l := range o.lines {
		if l.Status() == LinePending {
			targets = append(targets, l)
		}
	}
	if len(targets) == 0 {
		return nil, errs.NewInvalidStateError("no pending items to fire")
	}

	return o.fire(targets, actor), nil
}

func (o *Order) fire(targets []*Line, actor string) []kernel.UUID {
	fired := make([]kernel.UUID, 0, len(targets))
	for _, l := range targets {
		l.status = LineFired
		fired = append(fired, l.ID())
	}
	o.record(EventItemsFired, actor, fmt.Sprintf("%d items fired", len(fired)))
	return fired
}
