package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrValidateOrderCommandIsNotConstructed = errors.New(
	"ValidateOrderCommand must be created via NewValidateOrderCommand constructor",
)

// ValidateOrderCommand asks an agent's approval of a Created order.
type ValidateOrderCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewValidateOrderCommand(actor kernel.Actor, orderID kernel.UUID) (ValidateOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return ValidateOrderCommand{}, err
	}
	return ValidateOrderCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ValidateOrderCommand) Validate() error {
	return c.guard.Validate(ErrValidateOrderCommandIsNotConstructed)
}

func (c ValidateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ValidateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
