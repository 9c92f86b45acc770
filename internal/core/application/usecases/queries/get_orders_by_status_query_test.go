package queries_test

import (
	"errors"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersByStatusQuery(t *testing.T) {
	ops := newActor(t, "ops-1", identity.RoleOperator)

	t.Run("zero limit falls back to default", func(t *testing.T) {
		query, err := queries.NewGetOrdersByStatusQuery(ops, order.Pending, 0, false)
		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Equal(t, queries.DefaultListLimit, query.Limit())
	})

	t.Run("limit out of range", func(t *testing.T) {
		_, err := queries.NewGetOrdersByStatusQuery(ops, order.Pending, queries.MaxListLimit+1, false)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = queries.NewGetOrdersByStatusQuery(ops, order.Pending, -1, false)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := queries.NewGetOrdersByStatusQuery(ops, order.Unknown, 10, false)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("not constructed", func(t *testing.T) {
		assert.ErrorIs(t,
			queries.GetOrdersByStatusQuery{}.Validate(),
			queries.ErrGetOrdersByStatusQueryIsNotConstructed,
		)
	})
}

func TestGetOrdersByStatusQueryHandler(t *testing.T) {
	repo := newRepo()
	third := seedOrder(t, repo, "cust-1", 3*time.Minute, order.Pending)
	first := seedOrder(t, repo, "cust-2", time.Minute, order.Pending)
	second := seedOrder(t, repo, "cust-1", 2*time.Minute, order.Pending)
	seedOrder(t, repo, "cust-3", 0, order.Processing)
	seedOrder(t, repo, "cust-3", 0, order.Cancelled)

	handler := queries.NewGetOrdersByStatusQueryHandler(repo, services.NewAccessPolicy())
	ops := newActor(t, "ops-1", identity.RoleOperator)

	t.Run("lists oldest first up to the limit", func(t *testing.T) {
		query, err := queries.NewGetOrdersByStatusQuery(ops, order.Pending, 2, false)
		require.NoError(t, err)

		res, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		require.Len(t, res.Orders, 2)
		assert.True(t, first.ID().IsEqual(res.Orders[0].ID()))
		assert.True(t, second.ID().IsEqual(res.Orders[1].ID()))
		assert.False(t, third.ID().IsEqual(res.Orders[1].ID()))
	})

	t.Run("count only", func(t *testing.T) {
		query, err := queries.NewGetOrdersByStatusQuery(ops, order.Pending, 0, true)
		require.NoError(t, err)

		res, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		assert.Nil(t, res.Orders)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		query, err := queries.NewGetOrdersByStatusQuery(newActor(t, "cust-1", identity.RoleCustomer), order.Pending, 0, true)
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestGetOrdersByStatusQueryHandler_CountError(t *testing.T) {
	reader := new(MockOrderReader)
	reader.On("CountByStatus", mock.Anything, order.Pending).Return(0, errors.New("timeout")).Once()
	handler := queries.NewGetOrdersByStatusQueryHandler(reader, services.NewAccessPolicy())

	query, err := queries.NewGetOrdersByStatusQuery(newActor(t, "root", identity.RoleAdmin), order.Pending, 0, false)
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), query)

	require.EqualError(t, err, "timeout")
	reader.AssertNotCalled(t, "ListByStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPendingOrdersCounter(t *testing.T) {
	repo := newRepo()
	seedOrder(t, repo, "cust-1", 0, order.Pending)
	seedOrder(t, repo, "cust-1", time.Minute, order.Pending)
	seedOrder(t, repo, "cust-2", 0, order.Shipped)

	count, err := queries.NewPendingOrdersCounter(repo).CountPending(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
