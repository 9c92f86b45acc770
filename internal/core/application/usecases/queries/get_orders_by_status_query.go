package queries

import (
	"errors"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	// DefaultListLimit caps the list when the caller does not ask for a size.
	DefaultListLimit = 100

	// MaxListLimit is the largest list a single query returns.
	MaxListLimit = 500
)

var ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
	"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
)

// GetOrdersByStatusQuery lists orders in one status, oldest first. It backs
// the operator console's poll fallback, which usually only wants the count.
//
// Example:
//
//	query, err := queries.NewGetOrdersByStatusQuery(operator, order.Pending, 0, true)
//	res, err := handler.Handle(ctx, query)
//	fmt.Println(res.Count, len(res.Orders))
type GetOrdersByStatusQuery struct {
	actor     identity.Actor
	status    order.Status
	limit     int
	countOnly bool

	guard guard.ConstructorGuard
}

// NewGetOrdersByStatusQuery builds the query. A limit of 0 means DefaultListLimit.
// With countOnly set the handler skips loading the list.
func NewGetOrdersByStatusQuery(
	actor identity.Actor,
	status order.Status,
	limit int,
	countOnly bool,
) (GetOrdersByStatusQuery, error) {
	if err := errors.Join(actor.Validate(), status.Validate()); err != nil {
		return GetOrdersByStatusQuery{}, err
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return GetOrdersByStatusQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}

	return GetOrdersByStatusQuery{
		actor:     actor,
		status:    status,
		limit:     limit,
		countOnly: countOnly,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

func (q GetOrdersByStatusQuery) Actor() identity.Actor {
	return q.actor
}

func (q GetOrdersByStatusQuery) Status() order.Status {
	return q.status
}

func (q GetOrdersByStatusQuery) Limit() int {
	return q.limit
}

func (q GetOrdersByStatusQuery) CountOnly() bool {
	return q.countOnly
}

// GetOrdersByStatusQueryResponse carries the total number of orders in the
// status and, unless only the count was asked for, the oldest of them.
type GetOrdersByStatusQueryResponse struct {
	Count  int
	Orders []*order.Order
}
