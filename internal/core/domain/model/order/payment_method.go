package order

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// PaymentMethod records how the customer pays. Settlement happens outside this
// service; the method is carried for display and reporting only.
type PaymentMethod string

const (
	// CashOnDelivery is collected by the carrier at the door.
	CashOnDelivery PaymentMethod = "COD"

	// BankTransfer is paid ahead of shipping.
	BankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ParsePaymentMethod converts a wire value into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate rejects values other than COD and BANK_TRANSFER.
func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != BankTransfer {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid",
			fmt.Errorf("%q is not a supported payment method", string(m)),
		)
	}
	return nil
}

func (m PaymentMethod) String() string {
	return string(m)
}
