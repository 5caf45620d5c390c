package commands_test

import (
	"testing"

	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddLineCommand_ValidInput(t *testing.T) {
	ref := newRef(t)
	cmd, err := commands.NewAddLineCommand(
		ref, "menu-42", "Burger", 2,
		kernel.NewMoneyFromFloat(15), decimal.NewFromFloat(0.10), nil, 3,
	)
	require.NoError(t, err)
	assert.Equal(t, "Burger", cmd.Name())
	assert.Equal(t, 2, cmd.Quantity())
	assert.Equal(t, "menu-42", cmd.MenuItemRef())
	assert.Equal(t, 3, cmd.Seat())
}

func TestNewAddLineCommand_EmptyName(t *testing.T) {
	_, err := commands.NewAddLineCommand(
		newRef(t), "", "", 1,
		kernel.NewMoneyFromFloat(15), decimal.Zero, nil, 0,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrItemNameIsRequired)
}

func TestNewAddLineCommand_InvalidQuantity(t *testing.T) {
	_, err := commands.NewAddLineCommand(
		newRef(t), "", "Burger", 0,
		kernel.NewMoneyFromFloat(15), decimal.Zero, nil, 0,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrQuantityIsInvalid)
}

func TestNewAddLineCommand_NegativePrice(t *testing.T) {
	_, err := commands.NewAddLineCommand(
		newRef(t), "", "Burger", 1,
		kernel.NewMoneyFromFloat(-1), decimal.Zero, nil, 0,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrUnitPriceIsInvalid)
}

func TestAddLineCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	ref := newRef(t)
	aggregate := newStoredOrder(t, ref)
	cmd, _ := commands.NewAddLineCommand(
		ref, "", "Burger", 1,
		kernel.NewMoneyFromFloat(15), decimal.NewFromFloat(0.10), nil, 0,
	)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectMutation(ctx, uow, repo, ref, aggregate)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddLineCommandHandler(factory)
	lineID, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NoError(t, lineID.Validate())
	require.Len(t, aggregate.Lines(), 1)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAddLineCommandHandler_Handle_NotConstructed(t *testing.T) {
	h := commands.NewAddLineCommandHandler(new(MockOrderUoWFactory))
	_, err := h.Handle(t.Context(), commands.AddLineCommand{})
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrAddLineCommandIsNotConstructed)
}
