package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

type FinishWorkCommandHandler struct {
	engine *Engine
}

func NewFinishWorkCommandHandler(engine *Engine) FinishWorkCommandHandler {
	return FinishWorkCommandHandler{engine: engine}
}

// Handle completes the order, closes its execution and asks the client to
// confirm the service.
func (h FinishWorkCommandHandler) Handle(ctx context.Context, command FinishWorkCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationFinishWork, command.Actor(), &orderID, func(tx *Tx) error {
		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = requireAssignedTechnician(tx.Actor(), o, order.OperationFinishWork); err != nil {
			return err
		}

		if err = o.FinishWork(tx.Now()); err != nil {
			return err
		}
		exec, err := tx.Executions().GetByOrder(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = exec.Finish(command.Summary(), tx.Now()); err != nil {
			return err
		}
		if err = tx.Executions().Update(tx.Context(), exec); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}

		tx.Notify(&orderID, notification.TypeWorkFinished,
			fmt.Sprintf("El técnico finalizó el servicio de la orden %s: %s. Confirme o rechace el trabajo",
				o.Number(), exec.Summary()),
			o.ClientID())
		tx.Audit(&orderID, audit.ActionFinishWork,
			fmt.Sprintf("Trabajo finalizado en la orden %s. Resumen: %s", o.Number(), exec.Summary()))
		return nil
	})
}
