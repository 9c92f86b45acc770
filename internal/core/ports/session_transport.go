package ports

import (
	"context"

	"storefront/internal/core/domain/model/notification"
)

// SessionTransport carries messages to one connected operator console.
// Send and Ping must honour ctx so a stalled peer cannot hold a dispatch
// worker beyond its attempt timeout.
type SessionTransport interface {
	// Send writes one message. An error counts as a failed delivery.
	Send(ctx context.Context, msg notification.Message) error

	// Ping checks the peer is still there. It backs the heartbeat.
	Ping(ctx context.Context) error

	// Close ends the connection with a human readable reason.
	Close(reason string) error
}
