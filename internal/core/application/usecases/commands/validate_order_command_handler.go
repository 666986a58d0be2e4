package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/services"
)

// ValidateOrderCommandHandler approves Created orders after the validation policy.
type ValidateOrderCommandHandler struct {
	engine *Engine
	policy services.OrderValidationPolicy
}

func NewValidateOrderCommandHandler(engine *Engine) ValidateOrderCommandHandler {
	return ValidateOrderCommandHandler{
		engine: engine,
		policy: services.NewOrderValidationPolicy(),
	}
}

// Handle validates the order. Every failing policy check is reported together;
// on success the client and all active coordinators are notified.
func (h ValidateOrderCommandHandler) Handle(ctx context.Context, command ValidateOrderCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationValidate, command.Actor(), &orderID, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), order.OperationValidate, kernel.RoleAgent); err != nil {
			return err
		}

		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		c, err := tx.Clients().Get(tx.Context(), o.ClientID())
		if err != nil {
			return err
		}

		if err = h.policy.Validate(o, c); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}

		coordinators, err := tx.ActiveCoordinatorIDs()
		if err != nil {
			return err
		}
		tx.Notify(&orderID, notification.TypeOrderValidated,
			fmt.Sprintf("La orden %s fue validada y espera asignación de técnico", o.Number()),
			append([]kernel.UUID{o.ClientID()}, coordinators...)...)
		tx.Audit(&orderID, audit.ActionValidateOrder, fmt.Sprintf("Orden %s validada", o.Number()))
		return nil
	})
}
