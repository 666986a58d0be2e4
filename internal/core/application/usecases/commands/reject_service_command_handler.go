package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

type RejectServiceCommandHandler struct {
	engine *Engine
}

func NewRejectServiceCommandHandler(engine *Engine) RejectServiceCommandHandler {
	return RejectServiceCommandHandler{engine: engine}
}

// Handle records the client's rejection and sends the order back to InProgress
// so the technician can finish it again. The technician and the supervising
// coordinator are notified; without a supervisor, every active coordinator is.
func (h RejectServiceCommandHandler) Handle(ctx context.Context, command RejectServiceCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationRejectService, command.Actor(), &orderID, func(tx *Tx) error {
		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = requireOrderClient(tx.Actor(), o, order.OperationRejectService); err != nil {
			return err
		}

		if err = o.Reopen(); err != nil {
			return err
		}
		exec, err := tx.Executions().GetByOrder(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = exec.Reject(); err != nil {
			return err
		}
		if err = tx.Executions().Update(tx.Context(), exec); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}

		supervisors, err := supervisorsOf(tx, o)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("El cliente rechazó el servicio de la orden %s", o.Number())
		description := fmt.Sprintf("Servicio de la orden %s rechazado por el cliente", o.Number())
		if command.Reason() != "" {
			message += ". Motivo: " + command.Reason()
			description += ". Motivo: " + command.Reason()
		}
		tx.Notify(&orderID, notification.TypeServiceRejected, message,
			append(technicianOf(o), supervisors...)...)
		tx.Audit(&orderID, audit.ActionRejectService, description)
		return nil
	})
}
