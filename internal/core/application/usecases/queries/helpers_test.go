package queries_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) CountByStatus(ctx context.Context, status order.Status) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderReader) ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func newActor(t *testing.T, id string, role identity.Role) identity.Actor {
	t.Helper()
	a, err := identity.NewActor(id, role)
	require.NoError(t, err)
	return a
}

// seedOrder stores an order for customerID created at baseTime+offset and
// walks it to status through admin transitions.
func seedOrder(
	t *testing.T,
	repo ports.OrderRepository,
	customerID string,
	offset time.Duration,
	status order.Status,
) *order.Order {
	t.Helper()

	total, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	created := baseTime.Add(offset)
	o, err := order.NewOrder(kernel.NewOrderID(), customerID, total, order.CashOnDelivery, created)
	require.NoError(t, err)

	path := map[order.Status][]order.Status{
		order.Pending:    nil,
		order.Processing: {order.Processing},
		order.Shipped:    {order.Processing, order.Shipped},
		order.Cancelled:  {order.Cancelled},
	}[status]
	for i, next := range path {
		require.NoError(t, o.ApplyTransition(next, identity.RoleAdmin, created.Add(time.Duration(i+1)*time.Minute)))
	}

	require.NoError(t, repo.Add(t.Context(), o))
	return o
}

func newRepo() ports.OrderRepository {
	return memory.NewStore().OrderRepository()
}
