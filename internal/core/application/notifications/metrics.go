package notifications

import (
	"storefront/internal/core/domain/model/notification"
)

// Eviction reasons reported to Metrics and logs.
const (
	ReasonDeliveryFailures = "delivery_failures"
	ReasonQueueOverflow    = "queue_overflow"
	ReasonHeartbeat        = "missed_heartbeats"
	ReasonIdlePoll         = "idle_poll"
	ReasonClientClosed     = "client_closed"
	ReasonShutdown         = "shutdown"
)

// Metrics receives notification pipeline measurements.
type Metrics interface {
	EventPublished(kind notification.Kind)
	ReplayGap()
	DeliverySucceeded()
	DeliveryFailed()
	SessionOpened(transport TransportKind)
	SessionClosed(transport TransportKind, reason string)
}

type nopMetrics struct{}

func (nopMetrics) EventPublished(notification.Kind) {}
func (nopMetrics) ReplayGap() {}
func (nopMetrics) DeliverySucceeded() {}
func (nopMetrics) DeliveryFailed() {}
func (nopMetrics) SessionOpened(TransportKind) {}
func (nopMetrics) SessionClosed(TransportKind, string) {}
