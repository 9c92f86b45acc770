package kernel

import (
	"fmt"
	"strings"
	"unicode"

	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// maxOrderIDLength bounds identifiers accepted from callers and storage.
const maxOrderIDLength = 64

// ErrOrderIDIsNotConstructed indicates that an OrderID was not initialized through
// NewOrderID or OrderIDFromString.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError("OrderID must be created via NewOrderID or OrderIDFromString")

// OrderID is the opaque identifier of an order. New orders receive a random
// UUID, but identifiers restored from storage or supplied by the catalog are
// accepted as any short printable token, so callers must never parse it.
//
// Example usage:
//
//	id := kernel.NewOrderID()
//
//	id, err := kernel.OrderIDFromString("42")
//	if err != nil {
//	    // handle error
//	}
type OrderID struct {
	value string
}

// NewOrderID generates a new random order identifier.
func NewOrderID() OrderID {
	return OrderID{value: uuid.NewString()}
}

// OrderIDFromString validates and wraps an existing identifier.
// Empty values, values longer than 64 characters and values containing
// whitespace or control characters are rejected.
func OrderIDFromString(s string) (OrderID, error) {
	if s == "" {
		return OrderID{}, errs.NewValueIsRequiredError("order id")
	}
	if len(s) > maxOrderIDLength {
		return OrderID{}, errs.NewValueIsOutOfRangeError("order id length", len(s), 1, maxOrderIDLength)
	}
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || !unicode.IsPrint(r) }) >= 0 {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%q contains non-printable characters", s))
	}
	return OrderID{value: s}, nil
}

// String returns the identifier as stored and exchanged on the wire.
func (id OrderID) String() string {
	return id.value
}

// IsEqual compares two identifiers for equality.
func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate returns ErrOrderIDIsNotConstructed for the zero value.
func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
