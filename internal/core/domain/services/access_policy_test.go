package services_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, id string, role identity.Role) identity.Actor {
	t.Helper()
	actor, err := identity.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func newPendingOrder(t *testing.T, customerID string) *order.Order {
	t.Helper()
	total, err := kernel.MoneyFromString("12.50")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewOrderID(), customerID, total, order.CashOnDelivery, time.Now())
	require.NoError(t, err)
	return o
}

func TestAccessPolicy_CanAccess(t *testing.T) {
	policy := services.NewAccessPolicy()
	o := newPendingOrder(t, "cust-1")

	t.Run("should let operators read any order", func(t *testing.T) {
		require.NoError(t, policy.CanAccess(newActor(t, "ops-1", identity.RoleOperator), o))
		require.NoError(t, policy.CanAccess(newActor(t, "root", identity.RoleAdmin), o))
	})

	t.Run("should let the owner read the order", func(t *testing.T) {
		require.NoError(t, policy.CanAccess(newActor(t, "cust-1", identity.RoleCustomer), o))
	})

	t.Run("should refuse other customers", func(t *testing.T) {
		err := policy.CanAccess(newActor(t, "cust-2", identity.RoleCustomer), o)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Contains(t, err.Error(), "customer:cust-2")
	})

	t.Run("should reject unconstructed actor", func(t *testing.T) {
		err := policy.CanAccess(identity.Actor{}, o)

		require.ErrorIs(t, err, identity.ErrActorIsNotConstructed)
	})
}

func TestAccessPolicy_Authorize(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("owner may cancel a pending order", func(t *testing.T) {
		o := newPendingOrder(t, "cust-1")
		rule, err := order.LookupEdge(order.Pending, order.Cancelled)
		require.NoError(t, err)

		require.NoError(t, policy.Authorize(newActor(t, "cust-1", identity.RoleCustomer), rule, o))
	})

	t.Run("another customer may not cancel", func(t *testing.T) {
		o := newPendingOrder(t, "cust-1")
		rule, err := order.LookupEdge(order.Pending, order.Cancelled)
		require.NoError(t, err)

		err = policy.Authorize(newActor(t, "cust-2", identity.RoleCustomer), rule, o)

		var forbidden *errs.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Contains(t, forbidden.Action, "CANCELLED")
	})

	t.Run("operator may not process", func(t *testing.T) {
		o := newPendingOrder(t, "cust-1")
		rule, err := order.LookupEdge(order.Pending, order.Processing)
		require.NoError(t, err)

		err = policy.Authorize(newActor(t, "ops-1", identity.RoleOperator), rule, o)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("admin may process", func(t *testing.T) {
		o := newPendingOrder(t, "cust-1")
		rule, err := order.LookupEdge(order.Pending, order.Processing)
		require.NoError(t, err)

		require.NoError(t, policy.Authorize(newActor(t, "root", identity.RoleAdmin), rule, o))
	})
}

func TestAccessPolicy_RequireOperator(t *testing.T) {
	policy := services.NewAccessPolicy()

	require.NoError(t, policy.RequireOperator(newActor(t, "ops-1", identity.RoleOperator), "subscribe"))
	require.NoError(t, policy.RequireOperator(newActor(t, "root", identity.RoleAdmin), "subscribe"))

	err := policy.RequireOperator(newActor(t, "cust-1", identity.RoleCustomer), "subscribe")
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, "forbidden: customer:cust-1 may not subscribe", err.Error())
}

func TestAccessPolicy_CanCreateFor(t *testing.T) {
	policy := services.NewAccessPolicy()

	require.NoError(t, policy.CanCreateFor(newActor(t, "cust-1", identity.RoleCustomer), "cust-1"))
	require.NoError(t, policy.CanCreateFor(newActor(t, "root", identity.RoleAdmin), "cust-9"))
	require.ErrorIs(t, policy.CanCreateFor(newActor(t, "cust-1", identity.RoleCustomer), "cust-2"), errs.ErrForbidden)
	require.ErrorIs(t, policy.CanCreateFor(newActor(t, "ops-1", identity.RoleOperator), "cust-2"), errs.ErrForbidden)
}
