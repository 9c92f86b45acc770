package order

import (
	"slices"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/pkg/errs"
)

// Edge is a directed status change From -> To.
type Edge struct {
	From Status
	To   Status
}

func (e Edge) String() string {
	return e.From.String() + "->" + e.To.String()
}

// Grant allows one role to traverse an edge. OwnerOnly restricts the grant to
// the customer who placed the order.
type Grant struct {
	Role      identity.Role
	OwnerOnly bool
}

// EdgeRule is an edge of the legality graph together with who may take it.
type EdgeRule struct {
	Edge   Edge
	Grants []Grant
}

// Permits reports whether role may take the edge. isOwner tells whether the
// actor placed the order.
func (r EdgeRule) Permits(role identity.Role, isOwner bool) bool {
	return slices.ContainsFunc(r.Grants, func(g Grant) bool {
		return g.Role == role && (!g.OwnerOnly || isOwner)
	})
}

// legalityGraph returns every allowed status change. No other edge exists.
//
//	PENDING    -> PROCESSING  (admin)
//	PENDING    -> CANCELLED   (admin, owning customer)
//	PROCESSING -> SHIPPED     (admin)
//	PROCESSING -> CANCELLED   (admin)
//	SHIPPED    -> DELIVERED   (owning customer)
func legalityGraph() map[Edge][]Grant {
	admin := Grant{Role: identity.RoleAdmin}
	owner := Grant{Role: identity.RoleCustomer, OwnerOnly: true}

	return map[Edge][]Grant{
		{From: Pending, To: Processing}:   {admin},
		{From: Pending, To: Cancelled}:    {admin, owner},
		{From: Processing, To: Shipped}:   {admin},
		{From: Processing, To: Cancelled}: {admin},
		{From: Shipped, To: Delivered}:    {owner},
	}
}

// LookupEdge returns the rule for from -> to, or an InvalidTransitionError
// carrying both statuses when the edge is not part of the graph. Terminal
// statuses have no outgoing edges, so every request from them fails here,
// including a request for the status the order already has.
func LookupEdge(from, to Status) (EdgeRule, error) {
	edge := Edge{From: from, To: to}
	grants, ok := legalityGraph()[edge]
	if !ok {
		return EdgeRule{}, errs.NewInvalidTransitionError(from.String(), to.String())
	}
	return EdgeRule{Edge: edge, Grants: grants}, nil
}

// Edges lists the graph, ordered by source then target status.
func Edges() []Edge {
	graph := legalityGraph()
	edges := make([]Edge, 0, len(graph))
	for edge := range graph {
		edges = append(edges, edge)
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		return int(a.To) - int(b.To)
	})
	return edges
}
