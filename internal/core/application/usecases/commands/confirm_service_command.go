package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrConfirmServiceCommandIsNotConstructed = errors.New(
	"ConfirmServiceCommand must be created via NewConfirmServiceCommand constructor",
)

// ConfirmServiceCommand is the client's acceptance of the finished work.
type ConfirmServiceCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmServiceCommand(actor kernel.Actor, orderID kernel.UUID) (ConfirmServiceCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return ConfirmServiceCommand{}, err
	}
	return ConfirmServiceCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmServiceCommand) Validate() error {
	return c.guard.Validate(ErrConfirmServiceCommandIsNotConstructed)
}

func (c ConfirmServiceCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmServiceCommand) OrderID() kernel.UUID {
	return c.orderID
}
