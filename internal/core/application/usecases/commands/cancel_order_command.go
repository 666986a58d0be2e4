package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels any non-terminal order.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand builds the command. The reason is optional.
func NewCancelOrderCommand(actor kernel.Actor, orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{
		actor:   actor,
		orderID: orderID,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
