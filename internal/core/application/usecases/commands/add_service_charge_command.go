package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrAddServiceChargeCommandIsNotConstructed = errors.New(
		"AddServiceChargeCommand must be created via NewAddServiceChargeCommand constructor",
	)
	ErrChargeNameIsRequired  = errors.New("service charge name is required")
	ErrChargeAmountIsInvalid = errors.New("service charge amount must not be negative")
)

// AddServiceChargeCommand adds a flat service charge to the order, e.g. a
// large-party or delivery fee. Taxable charges are taxed at the order's
// weighted average rate.
type AddServiceChargeCommand struct { //nolint:recvcheck //using for validation
	ref     kernel.OrderRef
	name    string
	amount  kernel.Money
	taxable bool
	actor   string

	guard guard.ConstructorGuard
}

// NewAddServiceChargeCommand creates a command to add a service charge.
func NewAddServiceChargeCommand(ref kernel.OrderRef, name string, amount kernel.Money, taxable bool, actor string) (AddServiceChargeCommand, error) {
	cmd := AddServiceChargeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		requireActor(actor),
	); err != nil {
		return AddServiceChargeCommand{}, err
	}
	if name == "" {
		return AddServiceChargeCommand{}, ErrChargeNameIsRequired
	}
	if amount.IsNegative() {
		return AddServiceChargeCommand{}, ErrChargeAmountIsInvalid
	}

	cmd.ref = ref
	cmd.name = name
	cmd.amount = amount
	cmd.taxable = taxable
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddServiceChargeCommand) Validate() error {
	return c.guard.Validate(ErrAddServiceChargeCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c AddServiceChargeCommand) Ref() kernel.OrderRef { return c.ref }

// Name returns the charge name.
func (c AddServiceChargeCommand) Name() string { return c.name }

// Amount returns the flat charge amount.
func (c AddServiceChargeCommand) Amount() kernel.Money { return c.amount }

// IsTaxable reports whether the charge is taxed.
func (c AddServiceChargeCommand) IsTaxable() bool { return c.taxable }

// Actor returns who added the charge.
func (c AddServiceChargeCommand) Actor() string { return c.actor }

// AddServiceChargeCommandHandler handles service charges.
type AddServiceChargeCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAddServiceChargeCommandHandler creates a handler for service charges.
func NewAddServiceChargeCommandHandler(uowFactory OrderUoWFactory) AddServiceChargeCommandHandler {
	return AddServiceChargeCommandHandler{uowFactory: uowFactory}
}

// Handle adds the charge.
func (h *AddServiceChargeCommandHandler) Handle(ctx context.Context, cmd AddServiceChargeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.AddServiceCharge(cmd.Name(), cmd.Amount(), cmd.IsTaxable(), cmd.Actor())
	})
}
