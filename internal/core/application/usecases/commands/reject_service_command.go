package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrRejectServiceCommandIsNotConstructed = errors.New(
	"RejectServiceCommand must be created via NewRejectServiceCommand constructor",
)

// RejectServiceCommand is the client's rejection of the finished work.
type RejectServiceCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewRejectServiceCommand builds the command. The reason is optional and only recorded in the audit trail.
func NewRejectServiceCommand(actor kernel.Actor, orderID kernel.UUID, reason string) (RejectServiceCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return RejectServiceCommand{}, err
	}
	return RejectServiceCommand{
		actor:   actor,
		orderID: orderID,
		reason:  strings.TrimSpace(reason),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectServiceCommand) Validate() error {
	return c.guard.Validate(ErrRejectServiceCommandIsNotConstructed)
}

func (c RejectServiceCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RejectServiceCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectServiceCommand) Reason() string {
	return c.reason
}
