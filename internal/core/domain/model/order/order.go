package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// maxTrackingCodeLength bounds carrier tracking codes.
const maxTrackingCodeLength = 64

// Order is the aggregate root of the order lifecycle. It owns the status
// history and the optimistic-concurrency version.
//
// Order follows these invariants:
//   - statusHistory is non-empty and every consecutive pair is an edge of the
//     legality graph (transition.go)
//   - the last history entry's status is the current status
//   - version equals len(statusHistory), so it grows by one per committed transition
//   - terminal statuses are never followed by another entry
//
// The struct uses private fields; all mutation goes through ApplyTransition.
type Order struct {
	// id is the opaque unique identifier
	id kernel.OrderID

	// customerID is the subject id of the customer who placed the order
	customerID string

	// totalAmount is the order total, settled elsewhere
	totalAmount kernel.Money

	// paymentMethod records how the customer pays
	paymentMethod PaymentMethod

	// trackingCode is the carrier reference, set when the order ships
	trackingCode *string

	// history is the append-only list of committed statuses
	history []HistoryEntry

	// isConstructed ensures the order was created via a factory
	isConstructed bool
}

// NewOrder creates a PENDING order placed by customerID at the given time.
// The first history entry records the creation, so a new order has version 1.
//
// Example:
//
//	total, _ := kernel.MoneyFromString("59.90")
//	o, err := order.NewOrder(kernel.NewOrderID(), "cust-1", total, order.CashOnDelivery, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.OrderID,
	customerID string,
	totalAmount kernel.Money,
	paymentMethod PaymentMethod,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		history:       []HistoryEntry{NewHistoryEntry(Pending, createdAt, identity.RoleCustomer)},
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}
	o.totalAmount = totalAmount

	return o, nil
}

// RestoreOrder rebuilds an order from storage and re-checks every invariant,
// so a corrupted or hand-edited row is rejected instead of loaded.
func RestoreOrder(
	id kernel.OrderID,
	customerID string,
	totalAmount kernel.Money,
	paymentMethod PaymentMethod,
	trackingCode *string,
	history []HistoryEntry,
	version int,
) (*Order, error) {
	o := &Order{isConstructed: true, totalAmount: totalAmount}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPaymentMethod(paymentMethod),
		o.setHistory(history, version),
	); err != nil {
		return nil, err
	}
	if trackingCode != nil {
		if err := o.setTrackingCode(*trackingCode); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through a factory.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// CustomerID returns the subject id of the customer who placed the order.
func (o *Order) CustomerID() string {
	return o.customerID
}

// IsOwnedBy reports whether actorID placed the order.
func (o *Order) IsOwnedBy(actorID string) bool {
	return o.customerID == actorID
}

// TotalAmount returns the order total.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// PaymentMethod returns how the customer pays.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// TrackingCode returns the carrier reference, or nil before shipping.
func (o *Order) TrackingCode() *string {
	if o.trackingCode == nil {
		return nil
	}
	code := *o.trackingCode
	return &code
}

// Status returns the current status, which is the status of the last history entry.
func (o *Order) Status() Status {
	return o.history[len(o.history)-1].status
}

// Version returns the optimistic-concurrency version (the history length).
func (o *Order) Version() int {
	return len(o.history)
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []HistoryEntry {
	out := make([]HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// CreatedAt returns the time of the first history entry.
func (o *Order) CreatedAt() time.Time {
	return o.history[0].at
}

// UpdatedAt returns the time of the last history entry.
func (o *Order) UpdatedAt() time.Time {
	return o.history[len(o.history)-1].at
}

// ApplyTransition moves the order to the requested status and appends a
// history entry. It enforces graph legality only; whether actorRole may take
// the edge is decided by services.AccessPolicy before this is called.
//
// Returns:
//   - nil on success (status changed, version incremented)
//   - *errs.InvalidTransitionError if requested is not reachable from the current status
//
// Example:
//
//	if err := o.ApplyTransition(order.Shipped, identity.RoleAdmin, time.Now()); err != nil {
//	    // errors.Is(err, errs.ErrInvalidTransition)
//	}
func (o *Order) ApplyTransition(requested Status, actorRole identity.Role, at time.Time) error {
	if _, err := LookupEdge(o.Status(), requested); err != nil {
		return err
	}
	if err := actorRole.Validate(); err != nil {
		return err
	}

	o.history = append(o.history, NewHistoryEntry(requested, at, actorRole))
	return nil
}

// AssignTrackingCode stores the carrier reference. It is only accepted while
// the order is SHIPPED.
func (o *Order) AssignTrackingCode(code string) error {
	if o.Status() != Shipped {
		return errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("%s is not a valid status to carry a tracking code", o.Status()),
		)
	}
	return o.setTrackingCode(code)
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customer id")
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setTrackingCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("tracking code")
	}
	if len(code) > maxTrackingCodeLength {
		return errs.NewValueIsOutOfRangeError("tracking code length", len(code), 1, maxTrackingCodeLength)
	}
	o.trackingCode = &code
	return nil
}

// setHistory validates a restored history against the legality graph.
func (o *Order) setHistory(history []HistoryEntry, version int) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredError("status history")
	}
	if history[0].status != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status history",
			fmt.Errorf("first entry is %s, not %s", history[0].status, Pending),
		)
	}
	for i := 1; i < len(history); i++ {
		if _, err := LookupEdge(history[i-1].status, history[i].status); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("status history", err)
		}
	}
	if version != len(history) {
		return errs.NewValueIsInvalidErrorWithCause(
			"version",
			fmt.Errorf("version %d does not match %d history entries", version, len(history)),
		)
	}

	o.history = make([]HistoryEntry, len(history))
	copy(o.history, history)
	return nil
}
