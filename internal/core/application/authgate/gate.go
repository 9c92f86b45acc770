// Package authgate validates bearer credentials and answers role questions
// for every other component. REST handlers, the transition engine and the
// notification handshake all go through the same Gate.
package authgate

import (
	"context"
	"strings"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

const bearerScheme = "bearer"

// Gate turns credentials into actors and delegates decisions to the AccessPolicy.
type Gate struct {
	verifier ports.TokenVerifier
	policy   services.AccessPolicy
}

// NewGate creates a gate backed by verifier.
func NewGate(verifier ports.TokenVerifier, policy services.AccessPolicy) *Gate {
	return &Gate{verifier: verifier, policy: policy}
}

// Authenticate accepts either a raw token or an Authorization header value
// ("Bearer <token>") and returns the subject it names.
//
// Returns *errs.UnauthorizedError when the credential is missing or rejected.
func (g *Gate) Authenticate(ctx context.Context, credential string) (identity.Actor, error) {
	var token string
	switch fields := strings.Fields(credential); {
	case len(fields) == 2 && strings.EqualFold(fields[0], bearerScheme):
		token = fields[1]
	case len(fields) == 1 && !strings.EqualFold(fields[0], bearerScheme):
		token = fields[0]
	}
	if token == "" {
		return identity.Actor{}, errs.NewUnauthorizedError("missing bearer credential")
	}

	return g.verifier.Verify(ctx, token)
}

// Authorize is the decision point for taking a transition edge.
func (g *Gate) Authorize(actor identity.Actor, rule order.EdgeRule, o *order.Order) error {
	return g.policy.Authorize(actor, rule, o)
}

// CanAccess reports whether actor may see the order.
func (g *Gate) CanAccess(actor identity.Actor, o *order.Order) error {
	return g.policy.CanAccess(actor, o)
}

// RequireOperator admits admin and operator roles only.
func (g *Gate) RequireOperator(actor identity.Actor, action string) error {
	return g.policy.RequireOperator(actor, action)
}

// CanCreateFor reports whether actor may place an order for customerID.
func (g *Gate) CanCreateFor(actor identity.Actor, customerID string) error {
	return g.policy.CanCreateFor(actor, customerID)
}
