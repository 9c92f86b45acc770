package authgate_test

import (
	"context"
	"testing"

	"storefront/internal/core/application/authgate"
	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (identity.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.Actor), args.Error(1)
}

func TestGate_Authenticate(t *testing.T) {
	operator, err := identity.NewActor("ops-1", identity.RoleOperator)
	require.NoError(t, err)

	t.Run("should strip the bearer scheme", func(t *testing.T) {
		verifier := &mockVerifier{}
		verifier.On("Verify", mock.Anything, "abc.def.ghi").Return(operator, nil).Twice()
		gate := authgate.NewGate(verifier, services.NewAccessPolicy())

		actor, err := gate.Authenticate(context.Background(), "Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "ops-1", actor.ID())

		_, err = gate.Authenticate(context.Background(), "abc.def.ghi")
		require.NoError(t, err)

		verifier.AssertExpectations(t)
	})

	t.Run("should reject missing credentials without calling the verifier", func(t *testing.T) {
		verifier := &mockVerifier{}
		gate := authgate.NewGate(verifier, services.NewAccessPolicy())

		for _, credential := range []string{"", "   ", "Bearer ", "bearer"} {
			_, err := gate.Authenticate(context.Background(), credential)
			require.ErrorIs(t, err, errs.ErrUnauthorized, credential)
		}

		verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("should pass verifier errors through", func(t *testing.T) {
		verifier := &mockVerifier{}
		verifier.On("Verify", mock.Anything, "expired").
			Return(identity.Actor{}, errs.NewUnauthorizedError("token is expired"))
		gate := authgate.NewGate(verifier, services.NewAccessPolicy())

		_, err := gate.Authenticate(context.Background(), "Bearer expired")

		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestGate_RequireOperator(t *testing.T) {
	gate := authgate.NewGate(&mockVerifier{}, services.NewAccessPolicy())
	customer, err := identity.NewActor("cust-1", identity.RoleCustomer)
	require.NoError(t, err)

	require.ErrorIs(t, gate.RequireOperator(customer, "list orders"), errs.ErrForbidden)
}
