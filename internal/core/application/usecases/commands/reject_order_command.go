package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand cancels a Created order with the agent's reason. The reason
// length is checked by the order itself so the state conflict wins over it.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRejectOrderCommand(actor kernel.Actor, orderID kernel.UUID, reason string) (RejectOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{
		actor:   actor,
		orderID: orderID,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RejectOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectOrderCommand) Reason() string {
	return c.reason
}
