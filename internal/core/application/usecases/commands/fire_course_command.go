package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrFireCourseCommandIsNotConstructed = errors.New(
	"FireCourseCommand must be created via NewFireCourseCommand constructor",
)

// FireCourseCommand sends every pending line of one course to the kitchen.
type FireCourseCommand struct { //nolint:recvcheck //using for validation
	ref    kernel.OrderRef
	course int
	actor  string

	guard guard.ConstructorGuard
}

// NewFireCourseCommand creates a command to fire a course.
func NewFireCourseCommand(ref kernel.OrderRef, course int, actor string) (FireCourseCommand, error) {
	cmd := FireCourseCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return FireCourseCommand{}, err
	}
	if course <= 0 {
		return FireCourseCommand{}, ErrCourseNumberIsInvalid
	}

	cmd.ref = ref
	cmd.course = course
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FireCourseCommand) Validate() error {
	return c.guard.Validate(ErrFireCourseCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c FireCourseCommand) Ref() kernel.OrderRef { return c.ref }

// Course returns the course to fire.
func (c FireCourseCommand) Course() int { return c.course }

// Actor returns who fired the course.
func (c FireCourseCommand) Actor() string { return c.actor }

// FireCourseCommandHandler handles firing a whole course.
type FireCourseCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewFireCourseCommandHandler creates a handler for firing courses.
func NewFireCourseCommandHandler(uowFactory OrderUoWFactory) FireCourseCommandHandler {
	return FireCourseCommandHandler{uowFactory: uowFactory}
}

// Handle fires the course and returns the fired line ids.
func (h *FireCourseCommandHandler) Handle(ctx context.Context, cmd FireCourseCommand) ([]kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var fired []kernel.UUID
	err := mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		var err error
		fired, err = aggregate.FireCourse(cmd.Course(), cmd.Actor())
		return err
	})
	if err != nil {
		return nil, err
	}
	return fired, nil
}
