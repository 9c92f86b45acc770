package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command. A UnitOfWork is
// never shared between requests.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one order write: the order row,
// its version bump and the appended history entries commit or roll back
// together.
type UnitOfWork interface {
	// Begin opens the transaction. A second call is a no-op.
	Begin(ctx context.Context) error

	// Commit makes every staged write visible and ends the transaction.
	Commit(ctx context.Context) error

	// Rollback discards staged writes. Without an open transaction, for
	// example after Commit, it returns an error and changes nothing.
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the open transaction, or works directly on
	// the store when Begin was not called.
	OrderRepository() OrderRepository
}
