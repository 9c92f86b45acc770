package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/keyedmutex"
)

// TransitionOrderCommandHandler is the transition engine. It validates a
// requested status change against the stored order, commits it and publishes
// exactly one OrderStatusChanged event.
//
// Requests for the same order are serialized by a per-order lock held from the
// read through the commit and the publish, so no other transition of that
// order can land between the commit and its event. Inside the transaction the
// row is also read with an exclusive lock and written with a version guard,
// which covers several instances sharing one database.
//
// Checks run in this order, and the first failure is returned:
//  1. the order exists (*errs.ObjectNotFoundError)
//  2. the actor may act on this order at all (*errs.ForbiddenError)
//  3. ExpectedVersion matches (*errs.VersionConflictError)
//  4. the edge exists in the legality graph (*errs.InvalidTransitionError)
//  5. the actor's role is granted on the edge (*errs.ForbiddenError)
//
// Of two concurrent requests carrying the same expected version, the one that
// enters second sees the bumped version and gets a conflict.
//
// Example:
//
//	handler := commands.NewTransitionOrderCommandHandler(uowFactory, locks, gate, publisher, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(o.Status(), o.Version()) // SHIPPED 3
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locks      *keyedmutex.KeyedMutex
	authorizer Authorizer
	publisher  EventPublisher
	clock      func() time.Time
	metrics    TransitionMetrics
	logger     *slog.Logger
}

// HandlerOption customises a command handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	clock   func() time.Time
	metrics TransitionMetrics
}

// WithClock replaces time.Now for history timestamps.
func WithClock(clock func() time.Time) HandlerOption {
	return func(o *handlerOptions) { o.clock = clock }
}

// WithMetrics records transition outcomes.
func WithMetrics(metrics TransitionMetrics) HandlerOption {
	return func(o *handlerOptions) { o.metrics = metrics }
}

func buildOptions(opts []HandlerOption) handlerOptions {
	o := handlerOptions{clock: time.Now, metrics: nopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewTransitionOrderCommandHandler creates the transition engine.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keyedmutex.KeyedMutex,
	authorizer Authorizer,
	publisher EventPublisher,
	logger *slog.Logger,
	opts ...HandlerOption,
) *TransitionOrderCommandHandler {
	o := buildOptions(opts)
	return &TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		authorizer: authorizer,
		publisher:  publisher,
		clock:      o.clock,
		metrics:    o.metrics,
		logger:     logger.With("component", "transition_engine"),
	}
}

// Handle applies the transition and returns the updated order.
//
// Once the per-order lock is taken the request runs to completion even if ctx
// is cancelled, so a transition either fully applies or fails with an error;
// it never half-applies.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	unlock := h.locks.Lock(cmd.OrderID().String())
	defer unlock()

	o, from, err := h.commit(ctx, cmd)
	if err != nil {
		h.metrics.TransitionRejected(rejectionReason(err))
		return nil, err
	}

	event, err := h.publisher.Publish(
		notification.NewOrderStatusChanged(o.ID().String(), o.Status().String(), o.UpdatedAt()),
	)
	if err != nil {
		h.logger.ErrorContext(ctx, "transition committed but event was not published",
			"order_id", o.ID().String(), "error", err)
	}

	h.metrics.TransitionCommitted(from, o.Status())
	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID().String(),
		"from", from.String(),
		"to", o.Status().String(),
		"version", o.Version(),
		"actor", cmd.Actor().String(),
		"sequence_id", event.SequenceID(),
	)
	return o, nil
}

func (h *TransitionOrderCommandHandler) commit(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, order.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.Unknown, err
	}

	if err = h.authorizer.CanAccess(cmd.Actor(), o); err != nil {
		return nil, order.Unknown, err
	}

	expected := cmd.ExpectedVersion()
	if o.Version() != expected {
		return nil, order.Unknown, errs.NewVersionConflictError(o.ID().String(), expected, o.Version())
	}

	from := o.Status()
	rule, err := order.LookupEdge(from, cmd.Requested())
	if err != nil {
		return nil, order.Unknown, err
	}

	if err = h.authorizer.Authorize(cmd.Actor(), rule, o); err != nil {
		return nil, order.Unknown, err
	}

	if err = o.ApplyTransition(cmd.Requested(), cmd.Actor().Role(), h.clock()); err != nil {
		return nil, order.Unknown, err
	}

	if code := cmd.TrackingCode(); code != nil {
		if err = o.AssignTrackingCode(*code); err != nil {
			return nil, order.Unknown, err
		}
	}

	if err = repo.Update(ctx, o, expected); err != nil {
		return nil, order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, order.Unknown, err
	}

	return o, from, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
