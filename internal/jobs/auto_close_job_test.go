package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/core/ports"
	"tableside/internal/jobs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, ref kernel.OrderRef) (*order.Order, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(_ context.Context, _, _ string) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderRepository) GetAllActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// recordingSequencer runs submitted work inline and remembers the keys,
// so the test can see which orders the sweep actually touched.
type recordingSequencer struct {
	keys []string
}

func (s *recordingSequencer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.keys = append(s.keys, key)
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPaidOrder(t *testing.T) *order.Order {
	t.Helper()
	ref, err := kernel.NewOrderRef("org-1", "site-1", kernel.NewUUID())
	require.NoError(t, err)

	aggregate, err := order.NewOrder(ref, order.DineIn, 2)
	require.NoError(t, err)

	_, err = aggregate.AddLine("", "Burger", 1, kernel.NewMoneyFromFloat(10), decimal.Zero, nil, 0)
	require.NoError(t, err)

	err = aggregate.RecordPayment(kernel.NewUUID(), kernel.NewMoneyFromFloat(10), kernel.ZeroMoney(), "card")
	require.NoError(t, err)
	require.Equal(t, order.Paid, aggregate.Status())

	return aggregate
}

func newOpenOrder(t *testing.T) *order.Order {
	t.Helper()
	ref, err := kernel.NewOrderRef("org-1", "site-1", kernel.NewUUID())
	require.NoError(t, err)

	aggregate, err := order.NewOrder(ref, order.DineIn, 2)
	require.NoError(t, err)

	_, err = aggregate.AddLine("", "Coffee", 1, kernel.NewMoneyFromFloat(3), decimal.Zero, nil, 0)
	require.NoError(t, err)

	return aggregate
}

func newSweepJob(factory *MockOrderUoWFactory, seq *recordingSequencer) *jobs.AutoCloseJob {
	closeHandler := commands.NewCloseOrderCommandHandler(factory)
	return jobs.NewAutoCloseJob(
		factory, closeHandler, seq,
		"0 */5 * * * *", 2*time.Hour,
		discardLogger(),
	)
}

func TestAutoCloseJob_Sweep(t *testing.T) {
	t.Run("should close paid stale orders on their command queue", func(t *testing.T) {
		paid := newPaidOrder(t)
		open := newOpenOrder(t)
		paidRef := paid.Ref()

		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}
		seq := &recordingSequencer{}

		factory.On("Create").Return(uow)
		uow.On("OrderRepository").Return(repo)
		repo.On("GetAllActiveOlderThan", mock.Anything, mock.Anything).
			Return([]*order.Order{paid, open}, nil).Once()

		uow.On("Begin", mock.Anything).Return(nil).Once()
		repo.On("Get", mock.Anything, paidRef).Return(paid, nil).Once()
		repo.On("Update", mock.Anything, paid).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()
		uow.On("Rollback", mock.Anything).Return(nil).Once()

		newSweepJob(factory, seq).Sweep()

		require.Len(t, seq.keys, 1)
		assert.Equal(t, paidRef.Key(), seq.keys[0])
		assert.Equal(t, order.Closed, paid.Status())
		assert.Equal(t, order.Open, open.Status())
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("should do nothing when no orders are stale", func(t *testing.T) {
		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}
		seq := &recordingSequencer{}

		factory.On("Create").Return(uow)
		uow.On("OrderRepository").Return(repo)
		repo.On("GetAllActiveOlderThan", mock.Anything, mock.Anything).
			Return([]*order.Order{}, nil).Once()

		newSweepJob(factory, seq).Sweep()

		assert.Empty(t, seq.keys)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should survive a failing sweep query", func(t *testing.T) {
		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}
		seq := &recordingSequencer{}

		factory.On("Create").Return(uow)
		uow.On("OrderRepository").Return(repo)
		repo.On("GetAllActiveOlderThan", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		newSweepJob(factory, seq).Sweep()

		assert.Empty(t, seq.keys)
	})

	t.Run("should move on when an order was voided between query and close", func(t *testing.T) {
		paid := newPaidOrder(t)
		paidRef := paid.Ref()

		// The stale snapshot says Paid, but by the time the close runs on
		// the order's queue a manager has voided it.
		raced := newPaidOrder(t)
		require.NoError(t, raced.Void("manager", "walked out"))

		repo := &MockOrderRepository{}
		uow := &MockOrderUoW{}
		factory := &MockOrderUoWFactory{}
		seq := &recordingSequencer{}

		factory.On("Create").Return(uow)
		uow.On("OrderRepository").Return(repo)
		repo.On("GetAllActiveOlderThan", mock.Anything, mock.Anything).
			Return([]*order.Order{paid}, nil).Once()

		uow.On("Begin", mock.Anything).Return(nil).Once()
		repo.On("Get", mock.Anything, paidRef).Return(raced, nil).Once()
		uow.On("Rollback", mock.Anything).Return(nil).Once()

		newSweepJob(factory, seq).Sweep()

		require.Len(t, seq.keys, 1)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
