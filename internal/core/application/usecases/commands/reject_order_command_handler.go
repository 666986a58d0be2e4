package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

type RejectOrderCommandHandler struct {
	engine *Engine
}

func NewRejectOrderCommandHandler(engine *Engine) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{engine: engine}
}

// Handle rejects the order and tells the client why.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, command RejectOrderCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationReject, command.Actor(), &orderID, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), order.OperationReject, kernel.RoleAgent); err != nil {
			return err
		}

		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = o.Reject(command.Reason()); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}

		tx.Notify(&orderID, notification.TypeOrderRejected,
			fmt.Sprintf("La orden %s fue rechazada. Motivo: %s", o.Number(), o.RejectionReason()),
			o.ClientID())
		tx.Audit(&orderID, audit.ActionRejectOrder,
			fmt.Sprintf("Orden %s rechazada. Motivo: %s", o.Number(), o.RejectionReason()))
		return nil
	})
}
