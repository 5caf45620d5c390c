package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrOpenOrderCommandIsNotConstructed = errors.New(
		"OpenOrderCommand must be created via NewOpenOrderCommand constructor",
	)
	ErrGuestCountIsInvalid = errors.New("guest count must be greater than 0")
)

// OpenOrderCommand represents a request to open a new order for a party.
//
// Example:
//
//	ref, _ := kernel.NewOrderRef("org-1", "site-1", kernel.NewUUID())
//	cmd, err := NewOpenOrderCommand(ref, order.DineIn, 4)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewOpenOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to open order: %w", err)
//	}
type OpenOrderCommand struct { //nolint:recvcheck //using for validation
	ref        kernel.OrderRef
	orderType  order.Type
	guestCount int

	guard guard.ConstructorGuard
}

// NewOpenOrderCommand creates a command to open a new order.
// Validates that the ref is fully scoped, the order type is known, and the
// guest count is positive.
func NewOpenOrderCommand(ref kernel.OrderRef, orderType order.Type, guestCount int) (OpenOrderCommand, error) {
	cmd := OpenOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRef(ref),
		cmd.setOrderType(orderType),
		cmd.setGuestCount(guestCount),
	); err != nil {
		return OpenOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OpenOrderCommand) Validate() error {
	return c.guard.Validate(ErrOpenOrderCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c OpenOrderCommand) Ref() kernel.OrderRef {
	return c.ref
}

// OrderType returns the requested order type.
func (c OpenOrderCommand) OrderType() order.Type {
	return c.orderType
}

// GuestCount returns the number of covers at the table.
func (c OpenOrderCommand) GuestCount() int {
	return c.guestCount
}

func (c *OpenOrderCommand) setRef(ref kernel.OrderRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	c.ref = ref
	return nil
}

func (c *OpenOrderCommand) setOrderType(orderType order.Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}

	c.orderType = orderType
	return nil
}

func (c *OpenOrderCommand) setGuestCount(guestCount int) error {
	if guestCount <= 0 {
		return ErrGuestCountIsInvalid
	}

	c.guestCount = guestCount
	return nil
}

// OpenOrderCommandHandler handles the business logic for opening orders.
type OpenOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewOpenOrderCommandHandler creates a handler for order opening operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewOpenOrderCommandHandler(uowFactory OrderUoWFactory) OpenOrderCommandHandler {
	return OpenOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the open order command.
// Creates the aggregate in Open status and persists it; a duplicate ref
// surfaces as an AlreadyExists error from the repository.
func (h *OpenOrderCommandHandler) Handle(ctx context.Context, cmd OpenOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := order.NewOrder(cmd.Ref(), cmd.OrderType(), cmd.GuestCount())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
