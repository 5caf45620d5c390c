package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
	ErrPaymentMethodIsRequired = errors.New("payment method is required")
	ErrPaymentAmountIsInvalid  = errors.New("payment amount must not be negative")
	ErrTipAmountIsInvalid      = errors.New("tip amount must not be negative")
)

// RecordPaymentCommand records a payment against the order. The payment id
// is supplied by the caller so that retries of the same payment are
// detected as duplicates instead of double-charging.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	ref       kernel.OrderRef
	paymentID kernel.UUID
	amount    kernel.Money
	tip       kernel.Money
	method    string

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand creates a command to record a payment.
func NewRecordPaymentCommand(ref kernel.OrderRef, paymentID kernel.UUID, amount, tip kernel.Money, method string) (RecordPaymentCommand, error) {
	cmd := RecordPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		paymentID.Validate(),
	); err != nil {
		return RecordPaymentCommand{}, err
	}
	if amount.IsNegative() {
		return RecordPaymentCommand{}, ErrPaymentAmountIsInvalid
	}
	if tip.IsNegative() {
		return RecordPaymentCommand{}, ErrTipAmountIsInvalid
	}
	if method == "" {
		return RecordPaymentCommand{}, ErrPaymentMethodIsRequired
	}

	cmd.ref = ref
	cmd.paymentID = paymentID
	cmd.amount = amount
	cmd.tip = tip
	cmd.method = method
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c RecordPaymentCommand) Ref() kernel.OrderRef { return c.ref }

// PaymentID returns the caller-supplied payment id.
func (c RecordPaymentCommand) PaymentID() kernel.UUID { return c.paymentID }

// Amount returns the payment amount applied to the balance.
func (c RecordPaymentCommand) Amount() kernel.Money { return c.amount }

// Tip returns the tip amount, tracked separately from the balance.
func (c RecordPaymentCommand) Tip() kernel.Money { return c.tip }

// Method returns the tender type, e.g. "cash" or "card".
func (c RecordPaymentCommand) Method() string { return c.method }

// RecordPaymentCommandHandler handles payment recording.
type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordPaymentCommandHandler creates a handler for payment recording.
func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{uowFactory: uowFactory}
}

// Handle records the payment.
func (h *RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.RecordPayment(cmd.PaymentID(), cmd.Amount(), cmd.Tip(), cmd.Method())
	})
}
