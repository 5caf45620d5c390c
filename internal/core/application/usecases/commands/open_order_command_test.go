package commands_test

import (
	"errors"
	"testing"

	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewOpenOrderCommand_ValidInput(t *testing.T) {
	ref := newRef(t)
	cmd, err := commands.NewOpenOrderCommand(ref, order.DineIn, 4)
	require.NoError(t, err)
	assert.True(t, ref.IsEqual(cmd.Ref()))
	assert.Equal(t, order.DineIn, cmd.OrderType())
	assert.Equal(t, 4, cmd.GuestCount())
}

func TestNewOpenOrderCommand_InvalidGuestCount(t *testing.T) {
	_, err := commands.NewOpenOrderCommand(newRef(t), order.DineIn, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrGuestCountIsInvalid)
}

func TestNewOpenOrderCommand_InvalidRef(t *testing.T) {
	var ref kernel.OrderRef
	_, err := commands.NewOpenOrderCommand(ref, order.DineIn, 4)
	require.Error(t, err)
}

func TestOpenOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewOpenOrderCommand(newRef(t), order.TakeOut, 1)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewOpenOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestOpenOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.OpenOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewOpenOrderCommandHandler(factory)
	require.Error(t, h.Handle(ctx, cmd))
}

func TestOpenOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewOpenOrderCommand(newRef(t), order.DineIn, 2)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.Anything).Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewOpenOrderCommandHandler(factory)
	require.Error(t, h.Handle(ctx, cmd))
	uow.AssertExpectations(t)
}
