// Package identity models who is acting: an authenticated subject and the role
// it carries. Roles come from the bearer credential and are never inferred from
// request payloads.
package identity

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// Role is the coarse permission class of an authenticated subject.
type Role string

const (
	// RoleAdmin runs the back office: it may move orders through fulfilment
	// and watch the notification stream.
	RoleAdmin Role = "admin"

	// RoleOperator watches the notification stream and reads orders but
	// cannot change them.
	RoleOperator Role = "operator"

	// RoleCustomer owns orders. It may cancel a pending order and confirm
	// receipt of a shipped one, in both cases only for its own orders.
	RoleCustomer Role = "customer"
)

// ParseRole converts a claim value into a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects roles outside the known set.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleOperator, RoleCustomer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// IsOperator reports whether the role may hold a notification session.
func (r Role) IsOperator() bool {
	return r == RoleAdmin || r == RoleOperator
}

func (r Role) String() string {
	return string(r)
}
