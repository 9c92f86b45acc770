package commands

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move one order to a new status.
//
// ExpectedVersion is the version the caller last read. If the order moved
// since then the command fails with a version conflict and the caller must
// refetch before retrying.
//
// Example:
//
//	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Shipped, admin, 2, &trackingCode)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrVersionConflict) {
//	    // refetch and retry
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.OrderID
	requested       order.Status
	actor           identity.Actor
	expectedVersion int
	trackingCode    *string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the request shape. Whether the
// transition is legal is decided by the handler against the stored order.
// A tracking code is only accepted when shipping.
func NewTransitionOrderCommand(
	orderID kernel.OrderID,
	requested order.Status,
	actor identity.Actor,
	expectedVersion int,
	trackingCode *string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequested(requested),
		cmd.setActor(actor),
		cmd.setExpectedVersion(expectedVersion),
		cmd.setTrackingCode(requested, trackingCode),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c TransitionOrderCommand) Requested() order.Status {
	return c.requested
}

func (c TransitionOrderCommand) Actor() identity.Actor {
	return c.actor
}

func (c TransitionOrderCommand) ExpectedVersion() int {
	return c.expectedVersion
}

// TrackingCode returns the carrier reference supplied with a ship request, or nil.
func (c TransitionOrderCommand) TrackingCode() *string {
	return c.trackingCode
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setRequested(requested order.Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	c.requested = requested
	return nil
}

func (c *TransitionOrderCommand) setActor(actor identity.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *TransitionOrderCommand) setExpectedVersion(version int) error {
	if version < 1 {
		return errs.NewValueIsOutOfRangeError("expected version", version, 1, math.MaxInt)
	}
	c.expectedVersion = version
	return nil
}

func (c *TransitionOrderCommand) setTrackingCode(requested order.Status, code *string) error {
	if code == nil || strings.TrimSpace(*code) == "" {
		return nil
	}
	if requested != order.Shipped {
		return errs.NewValueIsInvalidErrorWithCause(
			"tracking code",
			fmt.Errorf("only accepted when moving to %s", order.Shipped),
		)
	}
	trimmed := strings.TrimSpace(*code)
	c.trackingCode = &trimmed
	return nil
}
