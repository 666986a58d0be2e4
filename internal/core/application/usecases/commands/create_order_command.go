package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new service order for a client. A client creates
// orders for themself; an agent may create one on behalf of any client.
//
// Description and address are not checked here beyond trimming: their content is
// judged when an agent validates the order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, clientID, order.ServiceRepair,
//	    "Router does not power on after the storm", "Calle 10 # 4-21")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	clientID    kernel.UUID
	serviceType order.ServiceType
	description string
	address     string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identifiers and service type.
func NewCreateOrderCommand(
	actor kernel.Actor,
	clientID kernel.UUID,
	serviceType order.ServiceType,
	description string,
	address string,
) (CreateOrderCommand, error) {
	if err := errors.Join(actor.Validate(), clientID.Validate(), serviceType.Validate()); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		actor:       actor,
		clientID:    clientID,
		serviceType: serviceType,
		description: strings.TrimSpace(description),
		address:     strings.TrimSpace(address),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

func (c CreateOrderCommand) ServiceType() order.ServiceType {
	return c.serviceType
}

func (c CreateOrderCommand) Description() string {
	return c.description
}

func (c CreateOrderCommand) Address() string {
	return c.address
}
