package commands

import (
	"context"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
)

// mutateOrder loads the order identified by ref inside a fresh transaction,
// applies fn, and persists the result. Every mutating handler funnels
// through here so the transaction lifecycle is handled in exactly one
// place.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	ref kernel.OrderRef,
	fn func(aggregate *order.Order) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, ref)
	if err != nil {
		return err
	}

	if err = fn(aggregate); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
