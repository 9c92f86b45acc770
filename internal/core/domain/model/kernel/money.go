package kernel

import (
	"fmt"

	"storefront/internal/pkg/errs"

	"github.com/govalues/decimal"
)

// Money is a non-negative monetary amount in the store currency.
// It wraps govalues/decimal so totals never go through binary floating point.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps amount, rejecting negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNeg() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"total amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "149.90".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.Parse(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("total amount", err)
	}
	return NewMoney(amount)
}

// Decimal returns the underlying amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String formats the amount with its stored scale, e.g. "149.90".
func (m Money) String() string {
	return m.amount.String()
}

// IsEqual reports whether both amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Cmp(other.amount) == 0
}
