package queries

import (
	"context"
	"fmt"
)

// GetOrdersByStatusQueryHandler serves status listings to operators.
type GetOrdersByStatusQueryHandler struct {
	reader OrderReader
	access AccessChecker
}

func NewGetOrdersByStatusQueryHandler(reader OrderReader, access AccessChecker) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{reader: reader, access: access}
}

// Handle returns *errs.ForbiddenError for customers.
func (h GetOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByStatusQuery,
) (GetOrdersByStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersByStatusQueryResponse{}, err
	}

	if err := h.access.RequireOperator(query.Actor(), fmt.Sprintf("list %s orders", query.Status())); err != nil {
		return GetOrdersByStatusQueryResponse{}, err
	}

	count, err := h.reader.CountByStatus(ctx, query.Status())
	if err != nil {
		return GetOrdersByStatusQueryResponse{}, err
	}

	res := GetOrdersByStatusQueryResponse{Count: count}
	if query.CountOnly() {
		return res, nil
	}

	res.Orders, err = h.reader.ListByStatus(ctx, query.Status(), query.Limit())
	if err != nil {
		return GetOrdersByStatusQueryResponse{}, err
	}
	return res, nil
}
