package commands

import (
	"context"
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/guard"
)

var ErrRemovePaymentCommandIsNotConstructed = errors.New(
	"RemovePaymentCommand must be created via NewRemovePaymentCommand constructor",
)

// RemovePaymentCommand removes a recorded payment, for voided or reversed
// tenders.
type RemovePaymentCommand struct { //nolint:recvcheck //using for validation
	ref       kernel.OrderRef
	paymentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemovePaymentCommand creates a command to remove a payment.
func NewRemovePaymentCommand(ref kernel.OrderRef, paymentID kernel.UUID) (RemovePaymentCommand, error) {
	cmd := RemovePaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.Validate(),
		paymentID.Validate(),
	); err != nil {
		return RemovePaymentCommand{}, err
	}

	cmd.ref = ref
	cmd.paymentID = paymentID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemovePaymentCommand) Validate() error {
	return c.guard.Validate(ErrRemovePaymentCommandIsNotConstructed)
}

// Ref returns the scoped order reference.
func (c RemovePaymentCommand) Ref() kernel.OrderRef { return c.ref }

// PaymentID returns the payment to remove.
func (c RemovePaymentCommand) PaymentID() kernel.UUID { return c.paymentID }

// RemovePaymentCommandHandler handles payment removal.
type RemovePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRemovePaymentCommandHandler creates a handler for payment removal.
func NewRemovePaymentCommandHandler(uowFactory OrderUoWFactory) RemovePaymentCommandHandler {
	return RemovePaymentCommandHandler{uowFactory: uowFactory}
}

// Handle removes the payment.
func (h *RemovePaymentCommandHandler) Handle(ctx context.Context, cmd RemovePaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.Ref(), func(aggregate *order.Order) error {
		return aggregate.RemovePayment(cmd.PaymentID())
	})
}
