package commands_test

import (
	"testing"

	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMergeOrdersCommand_SelfMerge(t *testing.T) {
	ref := newRef(t)
	_, err := commands.NewMergeOrdersCommand(ref, ref, "server")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrMergeIntoSelf)
}

func TestMergeOrdersCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	sourceRef := newRef(t)
	targetRef := newRef(t)
	source := newStoredOrder(t, sourceRef)
	target := newStoredOrder(t, targetRef)
	_, err := source.AddLine("", "Burger", 1, kernel.NewMoneyFromFloat(15), decimal.Zero, nil, 0)
	require.NoError(t, err)
	require.NoError(t, source.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromFloat(5), kernel.ZeroMoney(), "cash"))

	cmd, err := commands.NewMergeOrdersCommand(sourceRef, targetRef, "server")
	require.NoError(t, err)

	// Precheck transaction against the target.
	precheckRepo := new(MockOrderRepository)
	precheckUoW := new(MockOrderUoW)
	precheckUoW.On("Begin", ctx).Return(nil).Once()
	precheckUoW.On("OrderRepository").Return(precheckRepo).Once()
	precheckRepo.On("Get", ctx, targetRef).Return(target, nil).Once()
	precheckUoW.On("Rollback", ctx).Return(nil).Once()

	// Drain transaction against the source.
	drainRepo := new(MockOrderRepository)
	drainUoW := new(MockOrderUoW)
	drainUoW.On("Begin", ctx).Return(nil).Once()
	drainUoW.On("OrderRepository").Return(drainRepo).Once()
	drainRepo.On("Get", ctx, sourceRef).Return(source, nil).Once()
	drainRepo.On("Update", ctx, source).Return(nil).Once()
	drainUoW.On("Commit", ctx).Return(nil).Once()
	drainUoW.On("Rollback", ctx).Return(nil).Once()

	// Absorb transaction against the target.
	absorbRepo := new(MockOrderRepository)
	absorbUoW := new(MockOrderUoW)
	absorbUoW.On("Begin", ctx).Return(nil).Once()
	absorbUoW.On("OrderRepository").Return(absorbRepo).Once()
	absorbRepo.On("Get", ctx, targetRef).Return(target, nil).Once()
	absorbRepo.On("Update", ctx, target).Return(nil).Once()
	absorbUoW.On("Commit", ctx).Return(nil).Once()
	absorbUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(precheckUoW).Once()
	factory.On("Create").Return(drainUoW).Once()
	factory.On("Create").Return(absorbUoW).Once()

	h := commands.NewMergeOrdersCommandHandler(factory, inlineSequencer{})
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.LinesMerged)
	assert.Equal(t, 1, result.PaymentsMerged)
	assert.Equal(t, order.Closed, source.Status())
	assert.Len(t, target.Lines(), 1)
	factory.AssertExpectations(t)
	drainUoW.AssertExpectations(t)
	absorbUoW.AssertExpectations(t)
}

func TestMergeOrdersCommandHandler_Handle_TargetClosed(t *testing.T) {
	ctx := t.Context()
	sourceRef := newRef(t)
	targetRef := newRef(t)
	target := newStoredOrder(t, targetRef)
	require.NoError(t, target.Close("manager", false))

	cmd, err := commands.NewMergeOrdersCommand(sourceRef, targetRef, "server")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", ctx, targetRef).Return(target, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewMergeOrdersCommandHandler(factory, inlineSequencer{})
	_, err = h.Handle(ctx, cmd)

	// The precheck fails before the source is touched.
	require.ErrorIs(t, err, errs.ErrInvalidState)
	factory.AssertNumberOfCalls(t, "Create", 1)
}
