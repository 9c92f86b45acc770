package kernel_test

import (
	"strings"
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID(t *testing.T) {
	t.Run("should create a random uuid backed id", func(t *testing.T) {
		id := kernel.NewOrderID()

		require.NoError(t, id.Validate())
		_, err := uuid.Parse(id.String())
		assert.NoError(t, err)
	})

	t.Run("should create unique ids", func(t *testing.T) {
		assert.False(t, kernel.NewOrderID().IsEqual(kernel.NewOrderID()))
	})
}

func TestOrderIDFromString(t *testing.T) {
	t.Run("should accept short opaque ids", func(t *testing.T) {
		id, err := kernel.OrderIDFromString("42")

		require.NoError(t, err)
		assert.Equal(t, "42", id.String())
	})

	t.Run("should reject empty id", func(t *testing.T) {
		_, err := kernel.OrderIDFromString("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject too long id", func(t *testing.T) {
		_, err := kernel.OrderIDFromString(strings.Repeat("x", 65))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject whitespace", func(t *testing.T) {
		_, err := kernel.OrderIDFromString("4 2")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrderID_Validate(t *testing.T) {
	var id kernel.OrderID

	require.ErrorIs(t, id.Validate(), kernel.ErrOrderIDIsNotConstructed)
}
