package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrAddLineCommandIsNotConstructed = errors.New(
		"AddLineCommand must be created via NewAddLineCommand constructor",
	)
	ErrItemNameIsRequired = errors.New("item name is required")
	ErrQuantityIsInvalid  = errors.New("quantity must be greater than 0")
	ErrUnitPriceIsInvalid = errors.New("unit price must not be negative")
	ErrTaxRateIsInvalid   = errors.New("tax rate must not be negative")
)

// AddLineCommand represents a request to add an item line to an order.
// Menu lookups happen upstream; the command carries the already-resolved
// name, price and tax rate so the order stays self-contained.
type AddLineCommand struct { //nolint:recvcheck //using for validation
	ref         kernel.OrderRef
	menuItemRef string
	name        string
	quantity    int
	unitPrice   kernel.Money
	taxRate     decimal.Decimal
	modifiers   []order.Modifier
	seat        int

	guard guard.ConstructorGuard
}

// NewAddLineCommand creates a command to add a line to an order.
// Seat 0 means unassigned.
func NewAddLineCommand(
	ref kernel.OrderRef,
	menuItemRef, name string,
	quantity int,
	unitPrice kernel.Money,
	taxRate decimal.Decimal,
	modifiers []order.Modifier,
	seat int,
) (AddLineCommand, error) {
	cmd := AddLineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRef(ref),
		cmd.setName(name),
		cmd.setQuantity(quantity),
		cmd.setUnitPrice(unitPrice),
		cmd.setTaxRate(taxRate),
	); err != nil {
		return AddLineCommand{}, err
	}

	cmd.menuItemRef = menuItemRef
	cmd.modifiers = modifiers
	cmd.seat = seat
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddLineCommand) Validate() error {
	return c.guard.Validate(ErrAddLineCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c AddLineCommand) Ref() kernel.OrderRef { return c.ref }

// MenuItemRef returns the optional menu catalog reference.
func (c AddLineCommand) MenuItemRef() string { return c.menuItemRef }

// Name returns the item display name.
func (c AddLineCommand) Name() string { return c.name }

// Quantity returns the ordered quantity.
func (c AddLineCommand) Quantity() int { return c.quantity }

// UnitPrice returns the per-unit price.
func (c AddLineCommand) UnitPrice() kernel.Money { return c.unitPrice }

// TaxRate returns the fractional tax rate, e.g. 0.10 for 10%.
func (c AddLineCommand) TaxRate() decimal.Decimal { return c.taxRate }

// Modifiers returns the attached modifiers.
func (c AddLineCommand) Modifiers() []order.Modifier { return c.modifiers }

// Seat returns the optional seat number, 0 when unassigned.
func (c AddLineCommand) Seat() int { return c.seat }

func (c *AddLineCommand) setRef(ref kernel.OrderRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	c.ref = ref
	return nil
}

func (c *AddLineCommand) setName(name string) error {
	if name == "" {
		return ErrItemNameIsRequired
	}
	c.name = name
	return nil
}

func (c *AddLineCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityIsInvalid
	}
	c.quantity = quantity
	return nil
}

func (c *AddLineCommand) setUnitPrice(unitPrice kernel.Money) error {
	if unitPrice.IsNegative() {
		return ErrUnitPriceIsInvalid
	}
	c.unitPrice = unitPrice
	return nil
}

func (c *AddLineCommand) setTaxRate(taxRate decimal.Decimal) error {
	if taxRate.IsNegative() {
		return ErrTaxRateIsInvalid
	}
	c.taxRate = taxRate
	return nil
}

// AddLineCommandHandler handles adding lines to orders.
type AddLineCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAddLineCommandHandler creates a handler for line addition.
func NewAddLineCommandHandler(uowFactory OrderUoWFactory) AddLineCommandHandler {
	return AddLineCommandHandler{uowFactory: uowFactory}
}

// Handle adds the line and returns the generated line id.
func (h *AddLineCommandHandler) Handle(ctx context.Context, cmd AddLineCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var lineID kernel.UUID
	err := mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		var err error
		lineID, err = aggregate.AddLine(
			cmd.MenuItemRef(), cmd.Name(), cmd.Quantity(),
			cmd.UnitPrice(), cmd.TaxRate(), cmd.Modifiers(), cmd.Seat(),
		)
		return err
	})
	if err != nil {
		return kernel.UUID{}, err
	}
	return lineID, nil
}
