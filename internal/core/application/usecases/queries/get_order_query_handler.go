package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// GetOrderQueryHandler returns an order to an actor allowed to see it.
//
// A customer asking for somebody else's order gets the same
// *errs.ObjectNotFoundError as for an id that does not exist, so order ids
// cannot be enumerated.
type GetOrderQueryHandler struct {
	reader OrderReader
	access AccessChecker
}

func NewGetOrderQueryHandler(reader OrderReader, access AccessChecker) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader, access: access}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.access.CanAccess(query.Actor(), o); err != nil {
		if errors.Is(err, errs.ErrForbidden) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return nil, err
	}

	return o, nil
}
