// Package commands holds the write side of the order service: placing an
// order and moving it through its lifecycle. Every handler validates its
// command, writes inside one unit of work and publishes the matching
// notification only once the commit succeeded.
package commands

import (
	"context"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// Transaction seams of the command handlers. An order row and the history
// entries appended to it commit together or not at all.
type (
	// TxManager opens and closes the transaction.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory yields the repository bound to the open transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is one order write. Handlers defer Rollback right after Begin
	// and ignore its error once Commit ran.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory returns a fresh OrderUoW per command.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// Collaborators shared by the order command handlers.
type (
	// EventPublisher sequences and fans out a notification. Publishing happens
	// only after the store commit succeeded.
	EventPublisher interface {
		Publish(draft notification.Draft) (notification.Event, error)
	}

	// Authorizer is the access decision point used before any write.
	Authorizer interface {
		CanAccess(actor identity.Actor, o *order.Order) error
		Authorize(actor identity.Actor, rule order.EdgeRule, o *order.Order) error
		CanCreateFor(actor identity.Actor, customerID string) error
	}

	// TransitionMetrics counts transition outcomes.
	TransitionMetrics interface {
		TransitionCommitted(from, to order.Status)
		TransitionRejected(reason string)
		OrderCreated()
	}
)

type nopMetrics struct{}

func (nopMetrics) TransitionCommitted(order.Status, order.Status) {}
func (nopMetrics) TransitionRejected(string) {}
func (nopMetrics) OrderCreated() {}
