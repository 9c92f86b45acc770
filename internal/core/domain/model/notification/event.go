package notification

import (
	"fmt"
	"time"

	"storefront/internal/pkg/errs"
)

// Topic is the single topic every order event is published on.
const Topic = "order-events"

// Kind tells what happened to the order.
type Kind string

const (
	OrderCreated       Kind = "OrderCreated"
	OrderStatusChanged Kind = "OrderStatusChanged"
)

func (k Kind) Validate() error {
	if k != OrderCreated && k != OrderStatusChanged {
		return errs.NewValueIsInvalidErrorWithCause("event kind", fmt.Errorf("%q is not a known kind", string(k)))
	}
	return nil
}

// Draft is an event that has not been sequenced yet.
type Draft struct {
	Kind      Kind
	OrderID   string
	NewStatus string
	Timestamp time.Time
}

// NewOrderCreated describes a freshly stored order.
func NewOrderCreated(orderID, status string, at time.Time) Draft {
	return Draft{Kind: OrderCreated, OrderID: orderID, NewStatus: status, Timestamp: at.UTC()}
}

// NewOrderStatusChanged describes a committed transition.
func NewOrderStatusChanged(orderID, status string, at time.Time) Draft {
	return Draft{Kind: OrderStatusChanged, OrderID: orderID, NewStatus: status, Timestamp: at.UTC()}
}

// Validate checks the draft before it is sequenced.
func (d Draft) Validate() error {
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if d.OrderID == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	if d.Timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}
	return nil
}

// Event is a published notification. Sequence ids are strictly increasing
// per topic, starting at 1.
type Event struct {
	sequenceID uint64
	kind       Kind
	orderID    string
	newStatus  string
	timestamp  time.Time
}

// Sequence turns the draft into an Event carrying seq.
func (d Draft) Sequence(seq uint64) Event {
	return Event{
		sequenceID: seq,
		kind:       d.Kind,
		orderID:    d.OrderID,
		newStatus:  d.NewStatus,
		timestamp:  d.Timestamp,
	}
}

func (e Event) SequenceID() uint64 {
	return e.sequenceID
}

func (e Event) Kind() Kind {
	return e.kind
}

func (e Event) OrderID() string {
	return e.orderID
}

func (e Event) NewStatus() string {
	return e.newStatus
}

func (e Event) Timestamp() time.Time {
	return e.timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s %s %s", e.sequenceID, e.kind, e.orderID, e.newStatus)
}
