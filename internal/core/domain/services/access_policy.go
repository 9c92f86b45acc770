package services

import (
	"fmt"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// AccessPolicy is a domain service deciding whether an actor may act on an order.
//
// Key responsibilities:
//   - Restricting customers to their own orders
//   - Checking the grants attached to a legality-graph edge
//   - Restricting the notification stream and back-office listings to operator roles
//
// Business rules:
//   - admin and operator may read every order
//   - a customer may read only orders they placed
//   - an edge may be taken only by a role granted on it; owner-only grants also
//     require the actor to have placed the order
//   - customers create orders for themselves, admins for any customer
//
// Every refusal is an *errs.ForbiddenError naming the actor and the action.
//
// Example usage:
//
//	policy := services.NewAccessPolicy()
//	rule, err := order.LookupEdge(o.Status(), order.Cancelled)
//	if err != nil {
//	    return err // InvalidTransition
//	}
//	if err := policy.Authorize(actor, rule, o); err != nil {
//	    return err // Forbidden
//	}
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy instance.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// CanAccess reports whether actor may see the order at all. Transition
// requests run this check before looking at versions or edges, so a customer
// probing someone else's order learns nothing about its state.
func (p AccessPolicy) CanAccess(actor identity.Actor, o *order.Order) error {
	if err := p.validate(actor, o); err != nil {
		return err
	}

	if actor.Role().IsOperator() || o.IsOwnedBy(actor.ID()) {
		return nil
	}

	return errs.NewForbiddenError(actor.String(), fmt.Sprintf("access order %s", o.ID()))
}

// Authorize checks that actor may take the given edge on the order.
//
// Parameters:
//   - actor: the authenticated caller
//   - rule: the edge returned by order.LookupEdge for the order's current status
//   - o: the order being transitioned
//
// Returns:
//   - nil if one of the edge grants matches the actor's role and ownership
//   - *errs.ForbiddenError otherwise
func (p AccessPolicy) Authorize(actor identity.Actor, rule order.EdgeRule, o *order.Order) error {
	if err := p.validate(actor, o); err != nil {
		return err
	}

	if rule.Permits(actor.Role(), o.IsOwnedBy(actor.ID())) {
		return nil
	}

	return errs.NewForbiddenError(
		actor.String(),
		fmt.Sprintf("move order %s to %s", o.ID(), rule.Edge.To),
	)
}

// RequireOperator admits admin and operator roles only. It guards the
// notification handshake and the back-office listings.
func (p AccessPolicy) RequireOperator(actor identity.Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if actor.Role().IsOperator() {
		return nil
	}

	return errs.NewForbiddenError(actor.String(), action)
}

// CanCreateFor reports whether actor may place an order on behalf of customerID.
func (p AccessPolicy) CanCreateFor(actor identity.Actor, customerID string) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	switch {
	case actor.Role() == identity.RoleAdmin:
		return nil
	case actor.Role() == identity.RoleCustomer && actor.ID() == customerID:
		return nil
	default:
		return errs.NewForbiddenError(actor.String(), "create order for "+customerID)
	}
}

func (p AccessPolicy) validate(actor identity.Actor, o *order.Order) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	return o.Validate()
}
