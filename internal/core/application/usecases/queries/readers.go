// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries never take the per-order lock and never open a write transaction.
package queries

import (
	"context"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store.
type OrderReader interface {
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)
	CountByStatus(ctx context.Context, status order.Status) (int, error)
	ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}

// AccessChecker decides who may read what.
type AccessChecker interface {
	CanAccess(actor identity.Actor, o *order.Order) error
	RequireOperator(actor identity.Actor, action string) error
}
