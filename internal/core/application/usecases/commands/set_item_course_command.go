package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrSetItemCourseCommandIsNotConstructed = errors.New(
		"SetItemCourseCommand must be created via NewSetItemCourseCommand constructor",
	)
	ErrCourseNumberIsInvalid = errors.New("course number must be greater than 0")
)

// SetItemCourseCommand tags lines with a course number so they can be
// fired together later.
type SetItemCourseCommand struct { //nolint:recvcheck //using for validation
	ref     kernel.OrderRef
	lineIDs []kernel.UUID
	course  int
	actor   string

	guard guard.ConstructorGuard
}

// NewSetItemCourseCommand creates a command to assign a course.
// The upper course bound is enforced by the aggregate.
func NewSetItemCourseCommand(ref kernel.OrderRef, lineIDs []kernel.UUID, course int, actor string) (SetItemCourseCommand, error) {
	cmd := SetItemCourseCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
		requireLineIDs(lineIDs),
	); err != nil {
		return SetItemCourseCommand{}, err
	}
	if course <= 0 {
		return SetItemCourseCommand{}, ErrCourseNumberIsInvalid
	}

	cmd.ref = ref
	cmd.lineIDs = lineIDs
	cmd.course = course
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetItemCourseCommand) Validate() error {
	return c.guard.Validate(ErrSetItemCourseCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c SetItemCourseCommand) Ref() kernel.OrderRef { return c.ref }

// LineIDs returns the lines to tag.
func (c SetItemCourseCommand) LineIDs() []kernel.UUID { return c.lineIDs }

// Course returns the course number.
func (c SetItemCourseCommand) Course() int { return c.course }

// Actor returns who assigned the course.
func (c SetItemCourseCommand) Actor() string { return c.actor }

// SetItemCourseCommandHandler handles course assignment.
type SetItemCourseCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSetItemCourseCommandHandler creates a handler for course assignment.
func NewSetItemCourseCommandHandler(uowFactory OrderUoWFactory) SetItemCourseCommandHandler {
	return SetItemCourseCommandHandler{uowFactory: uowFactory}
}

// Handle assigns the course.
func (h *SetItemCourseCommandHandler) Handle(ctx context.Context, cmd SetItemCourseCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.SetItemCourse(cmd.LineIDs(), cmd.Course(), cmd.Actor())
	})
}
