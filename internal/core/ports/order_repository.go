// Package ports defines the contracts between the storefront core and its
// infrastructure: the order store, the unit of work, credential verification,
// the event relay and the transports that carry notifications to operators.
// These interfaces establish dependency inversion and keep the core testable.
package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// It is the single source of truth for orders and their append-only status
// history.
type OrderRepository interface {
	// Add persists a new order aggregate together with its initial history entry.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the history entries appended since expectedVersion and the
	// resulting status, version and tracking code. The write only happens if the
	// stored version still equals expectedVersion; otherwise it returns
	// *errs.VersionConflictError and stores nothing.
	//
	// Example:
	//   expected := o.Version()
	//   if err := o.ApplyTransition(order.Shipped, identity.RoleAdmin, now); err != nil {
	//       return err
	//   }
	//   if err := repo.Update(ctx, o, expected); err != nil {
	//       return err // errors.Is(err, errs.ErrVersionConflict)
	//   }
	Update(ctx context.Context, aggregate *order.Order, expectedVersion int) error

	// Get retrieves an order aggregate with its full history.
	// Returns *errs.ObjectNotFoundError if the id is unknown.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetForUpdate is Get plus an exclusive row lock held until the enclosing
	// unit of work commits or rolls back.
	GetForUpdate(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// CountByStatus returns how many orders currently have the status.
	CountByStatus(ctx context.Context, status order.Status) (int, error)

	// ListByStatus returns up to limit orders with the status, oldest first.
	// A limit of 0 or less returns all of them.
	ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}
