package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrStartWorkCommandIsNotConstructed = errors.New(
	"StartWorkCommand must be created via NewStartWorkCommand constructor",
)

// StartWorkCommand is sent by the assigned technician on arrival.
type StartWorkCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartWorkCommand(actor kernel.Actor, orderID kernel.UUID) (StartWorkCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return StartWorkCommand{}, err
	}
	return StartWorkCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c StartWorkCommand) Validate() error {
	return c.guard.Validate(ErrStartWorkCommandIsNotConstructed)
}

func (c StartWorkCommand) Actor() kernel.Actor {
	return c.actor
}

func (c StartWorkCommand) OrderID() kernel.UUID {
	return c.orderID
}
