// Package servers holds the HTTP contract of the service: the request and
// response bodies, the echo ServerInterface with its parameter binding, and
// the embedded OpenAPI document. It mirrors openapi.yml and is laid out the
// way oapi-codegen lays out echo servers.
package servers

import (
	"time"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for EventMessageKind.
const (
	OrderCreated       EventMessageKind = "OrderCreated"
	OrderStatusChanged EventMessageKind = "OrderStatusChanged"
	ResyncRequired     EventMessageKind = "ResyncRequired"
)

// Defines values for PaymentMethod.
const (
	BANKTRANSFER PaymentMethod = "BANK_TRANSFER"
	COD          PaymentMethod = "COD"
)

// Defines values for ListOrdersParamsStatus.
const (
	CANCELLED  ListOrdersParamsStatus = "CANCELLED"
	DELIVERED  ListOrdersParamsStatus = "DELIVERED"
	PENDING    ListOrdersParamsStatus = "PENDING"
	PROCESSING ListOrdersParamsStatus = "PROCESSING"
	SHIPPED    ListOrdersParamsStatus = "SHIPPED"
)

// Error defines model for Error.
type Error struct {
	ActualVersion   *int    `json:"actualVersion,omitempty"`
	Code            int     `json:"code"`
	CurrentStatus   *string `json:"currentStatus,omitempty"`
	ExpectedVersion *int    `json:"expectedVersion,omitempty"`
	Message         string  `json:"message"`
	RequestedStatus *string `json:"requestedStatus,omitempty"`
}

// EventMessage defines model for EventMessage.
type EventMessage struct {
	Kind      EventMessageKind `json:"kind"`
	NewStatus *string          `json:"newStatus,omitempty"`
	OrderId   *string          `json:"orderId,omitempty"`

	// SequenceId For ResyncRequired, the oldest retained sequence id.
	SequenceId uint64     `json:"sequenceId"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// EventMessageKind defines model for EventMessage.Kind.
type EventMessageKind string

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	ActorRole string    `json:"actorRole"`
	At        time.Time `json:"at"`
	Status    string    `json:"status"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	// CustomerId Defaults to the caller. Only admins may order for someone else.
	CustomerId    *string       `json:"customerId,omitempty"`
	Id            *string       `json:"id,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TotalAmount   string        `json:"totalAmount"`
}

// PaymentMethod defines model for Order.PaymentMethod and NewOrder.PaymentMethod.
type PaymentMethod string

// Order defines model for Order.
type Order struct {
	CreatedAt     time.Time      `json:"createdAt"`
	CustomerId    string         `json:"customerId"`
	History       []HistoryEntry `json:"history"`
	Id            string         `json:"id"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Status        string         `json:"status"`
	TotalAmount   string         `json:"totalAmount"`
	TrackingCode  *string        `json:"trackingCode,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Version       int            `json:"version"`
}

// OrdersByStatus defines model for OrdersByStatus.
type OrdersByStatus struct {
	Count  int      `json:"count"`
	Orders *[]Order `json:"orders,omitempty"`
}

// PollResult defines model for PollResult.
type PollResult struct {
	NewOrders     bool `json:"newOrders"`
	PendingCount  int  `json:"pendingCount"`
	PreviousCount int  `json:"previousCount"`
}

// Replay defines model for Replay.
type Replay struct {
	Events         []EventMessage `json:"events"`
	LastSequenceId uint64         `json:"lastSequenceId"`
}

// SessionCreated defines model for SessionCreated.
type SessionCreated struct {
	ConnectionId string `json:"connectionId"`
	PendingCount int    `json:"pendingCount"`
}

// TransitionRequest defines model for TransitionRequest.
type TransitionRequest struct {
	ExpectedVersion int     `json:"expectedVersion"`
	TrackingCode    *string `json:"trackingCode,omitempty"`
}

// OrderId defines model for OrderId.
type OrderId = string

// SessionId defines model for SessionId.
type SessionId = string

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status ListOrdersParamsStatus `form:"status" json:"status"`

	// Count Return only the count.
	Count *bool `form:"count,omitempty" json:"count,omitempty"`
	Limit *int  `form:"limit,omitempty" json:"limit,omitempty"`
}

// ListOrdersParamsStatus defines parameters for ListOrders.
type ListOrdersParamsStatus string

// ReplayEventsParams defines parameters for ReplayEvents.
type ReplayEventsParams struct {
	Since *uint64 `form:"since,omitempty" json:"since,omitempty"`
}

// StreamOrderEventsParams defines parameters for StreamOrderEvents.
type StreamOrderEventsParams struct {
	LastAckedSequenceId *uint64 `form:"lastAckedSequenceId,omitempty" json:"lastAckedSequenceId,omitempty"`
	AccessToken         *string `form:"access_token,omitempty" json:"access_token,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// TransitionJSONRequestBody defines body for the order transition operations.
type TransitionJSONRequestBody = TransitionRequest
