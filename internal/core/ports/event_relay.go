package ports

import (
	"context"

	"storefront/internal/core/domain/model/notification"
)

// EventRelay mirrors published events to an external channel. Relaying is
// best-effort: a failure is logged by the caller and never affects local
// delivery.
type EventRelay interface {
	Relay(ctx context.Context, event notification.Event) error
}
