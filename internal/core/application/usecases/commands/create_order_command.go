package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a checkout handing a new order to the store.
// The order starts PENDING and operators are notified with an OrderCreated event.
//
// Example:
//
//	total, _ := kernel.MoneyFromString("149.90")
//	cmd, err := NewCreateOrderCommand(kernel.NewOrderID(), customer, "cust-1", total, order.BankTransfer)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s is %s", o.ID(), o.Status())
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.OrderID
	actor         identity.Actor
	customerID    string
	totalAmount   kernel.Money
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order for
// customerID. Returns an error if any field is invalid.
func NewCreateOrderCommand(
	orderID kernel.OrderID,
	actor identity.Actor,
	customerID string,
	totalAmount kernel.Money,
	paymentMethod order.PaymentMethod,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		totalAmount: totalAmount,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setCustomerID(customerID),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// Actor returns who is placing the order.
func (c CreateOrderCommand) Actor() identity.Actor {
	return c.actor
}

// CustomerID returns the customer who will own the order.
func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

// TotalAmount returns the order total.
func (c CreateOrderCommand) TotalAmount() kernel.Money {
	return c.totalAmount
}

// PaymentMethod returns how the customer pays.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor identity.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customer id")
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
