package identity_test

import (
	"testing"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		raw      string
		expected identity.Role
	}{
		{raw: "admin", expected: identity.RoleAdmin},
		{raw: " Operator ", expected: identity.RoleOperator},
		{raw: "CUSTOMER", expected: identity.RoleCustomer},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			role, err := identity.ParseRole(tc.raw)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, role)
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		_, err := identity.ParseRole("root")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRole_IsOperator(t *testing.T) {
	assert.True(t, identity.RoleAdmin.IsOperator())
	assert.True(t, identity.RoleOperator.IsOperator())
	assert.False(t, identity.RoleCustomer.IsOperator())
}

func TestNewActor(t *testing.T) {
	t.Run("valid actor", func(t *testing.T) {
		actor, err := identity.NewActor("cust-1", identity.RoleCustomer)

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.Equal(t, "customer:cust-1", actor.String())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := identity.NewActor("  ", identity.RoleAdmin)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is rejected", func(t *testing.T) {
		var actor identity.Actor

		require.ErrorIs(t, actor.Validate(), identity.ErrActorIsNotConstructed)
	})
}
