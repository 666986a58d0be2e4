package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

const OperationCreateOrder = "create order"

// CreateOrderCommandHandler creates orders in the Created state.
type CreateOrderCommandHandler struct {
	engine *Engine
}

// NewCreateOrderCommandHandler creates a handler running on engine.
func NewCreateOrderCommandHandler(engine *Engine) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{engine: engine}
}

// Handle creates the order, notifies the client and audits the creation.
// The created order id is returned in the result.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	actor := command.Actor()
	return h.engine.Run(ctx, OperationCreateOrder, actor, nil, func(tx *Tx) error {
		var createdBy *kernel.UUID
		switch {
		case actor.Role() == kernel.RoleClient:
			if !actor.Is(command.ClientID()) {
				return requireRole(actor, OperationCreateOrder, kernel.RoleAgent)
			}
		default:
			if err := requireRole(actor, OperationCreateOrder, kernel.RoleAgent); err != nil {
				return err
			}
			agentID := actor.UserID()
			createdBy = &agentID
		}

		if _, err := tx.Clients().Get(tx.Context(), command.ClientID()); err != nil {
			return err
		}

		id := kernel.NewUUID()
		o, err := order.NewServiceOrder(
			id,
			order.NewOrderNumber(tx.Now(), id),
			command.ClientID(),
			createdBy,
			command.ServiceType(),
			command.Description(),
			command.Address(),
			tx.Now(),
		)
		if err != nil {
			return err
		}

		if err = tx.Orders().Add(tx.Context(), o); err != nil {
			return err
		}
		tx.SetOrder(id)

		tx.Notify(&id, notification.TypeOrderCreated,
			fmt.Sprintf("Su orden %s de %s fue creada y está pendiente de validación", o.Number(), o.ServiceType()),
			o.ClientID())
		tx.Audit(&id, audit.ActionCreateOrder,
			fmt.Sprintf("Orden %s creada (%s)", o.Number(), o.ServiceType()))
		return nil
	})
}
