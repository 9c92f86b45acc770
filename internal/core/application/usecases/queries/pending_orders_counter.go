package queries

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// PendingOrdersCounter reports how many orders await processing. The session
// registry uses it to answer poll requests.
type PendingOrdersCounter struct {
	reader OrderReader
}

func NewPendingOrdersCounter(reader OrderReader) PendingOrdersCounter {
	return PendingOrdersCounter{reader: reader}
}

func (c PendingOrdersCounter) CountPending(ctx context.Context) (int, error) {
	return c.reader.CountByStatus(ctx, order.Pending)
}
