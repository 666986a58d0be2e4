package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrFinishWorkCommandIsNotConstructed = errors.New(
	"FinishWorkCommand must be created via NewFinishWorkCommand constructor",
)

// FinishWorkCommand closes the visit with the technician's work summary.
type FinishWorkCommand struct { //nolint:recvcheck //using for validation
	actor   kernel.Actor
	orderID kernel.UUID
	summary string

	guard guard.ConstructorGuard
}

// NewFinishWorkCommand builds the command. The summary is checked when the execution is finished.
func NewFinishWorkCommand(actor kernel.Actor, orderID kernel.UUID, summary string) (FinishWorkCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return FinishWorkCommand{}, err
	}
	return FinishWorkCommand{
		actor:   actor,
		orderID: orderID,
		summary: strings.TrimSpace(summary),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c FinishWorkCommand) Validate() error {
	return c.guard.Validate(ErrFinishWorkCommandIsNotConstructed)
}

func (c FinishWorkCommand) Actor() kernel.Actor {
	return c.actor
}

func (c FinishWorkCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c FinishWorkCommand) Summary() string {
	return c.summary
}
