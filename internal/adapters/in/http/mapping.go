package http

import (
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/generated/servers"
)

func toOrderResponse(o *order.Order) servers.Order {
	history := o.History()
	entries := make([]servers.HistoryEntry, len(history))
	for i, h := range history {
		entries[i] = servers.HistoryEntry{
			Status:    h.Status().String(),
			At:        h.At(),
			ActorRole: h.ActorRole().String(),
		}
	}

	return servers.Order{
		Id:            o.ID().String(),
		CustomerId:    o.CustomerID(),
		Status:        o.Status().String(),
		Version:       o.Version(),
		TotalAmount:   o.TotalAmount().String(),
		PaymentMethod: servers.PaymentMethod(o.PaymentMethod().String()),
		TrackingCode:  o.TrackingCode(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		History:       entries,
	}
}

func toOrdersResponse(orders []*order.Order) []servers.Order {
	response := make([]servers.Order, len(orders))
	for i, o := range orders {
		response[i] = toOrderResponse(o)
	}
	return response
}

func toEventMessage(e notification.Event) servers.EventMessage {
	orderID := e.OrderID()
	newStatus := e.NewStatus()
	timestamp := e.Timestamp()

	return servers.EventMessage{
		SequenceId: e.SequenceID(),
		Kind:       servers.EventMessageKind(e.Kind()),
		OrderId:    &orderID,
		NewStatus:  &newStatus,
		Timestamp:  &timestamp,
	}
}

func resyncMessage(oldest uint64) servers.EventMessage {
	return servers.EventMessage{
		SequenceId: oldest,
		Kind:       servers.ResyncRequired,
	}
}

// toWireMessage renders a queued session message the way push clients see it.
func toWireMessage(msg notification.Message) servers.EventMessage {
	if msg.Kind == notification.MessageResyncRequired {
		return resyncMessage(msg.OldestAvailable)
	}
	return toEventMessage(msg.Event)
}
