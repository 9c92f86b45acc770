package commands

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/keyedmutex"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Stores the order in PENDING status with its first history entry and, once the
// transaction is committed, publishes an OrderCreated event.
//
// The handler takes the same per-order lock as the transition engine from the
// insert through the publish, so OrderCreated always precedes the order's
// first OrderStatusChanged in the stream.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, locks, gate, publisher, logger)
//	cmd, _ := NewCreateOrderCommand(kernel.NewOrderID(), customer, customer.ID(), total, order.CashOnDelivery)
//
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Operators now see the order in their consoles
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locks      *keyedmutex.KeyedMutex
	authorizer Authorizer
	publisher  EventPublisher
	clock      func() time.Time
	metrics    TransitionMetrics
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence and the lock set
// shared with the transition engine.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keyedmutex.KeyedMutex,
	authorizer Authorizer,
	publisher EventPublisher,
	logger *slog.Logger,
	opts ...HandlerOption,
) *CreateOrderCommandHandler {
	o := buildOptions(opts)
	return &CreateOrderCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		authorizer: authorizer,
		publisher:  publisher,
		clock:      o.clock,
		metrics:    o.metrics,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the order creation command.
// Uses a transaction to ensure the order is properly persisted or rolled back on error.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.authorizer.CanCreateFor(cmd.Actor(), cmd.CustomerID()); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.CustomerID(), cmd.TotalAmount(), cmd.PaymentMethod(), h.clock())
	if err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(o.ID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	event, err := h.publisher.Publish(
		notification.NewOrderCreated(o.ID().String(), o.Status().String(), o.CreatedAt()),
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "order stored but event was not published", "order_id", o.ID().String(), "error", err)
	}

	h.metrics.OrderCreated()
	h.logger.InfoContext(ctx, "order created",
		"order_id", o.ID().String(),
		"customer_id", o.CustomerID(),
		"total", o.TotalAmount().String(),
		"sequence_id", event.SequenceID(),
	)
	return o, nil
}
