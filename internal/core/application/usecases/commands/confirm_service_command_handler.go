package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"
)

type ConfirmServiceCommandHandler struct {
	engine *Engine
}

func NewConfirmServiceCommandHandler(engine *Engine) ConfirmServiceCommandHandler {
	return ConfirmServiceCommandHandler{engine: engine}
}

// Handle records the client's acceptance and completes every appointment of the
// order that is not terminal yet.
func (h ConfirmServiceCommandHandler) Handle(ctx context.Context, command ConfirmServiceCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationConfirmService, command.Actor(), &orderID, func(tx *Tx) error {
		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = requireOrderClient(tx.Actor(), o, order.OperationConfirmService); err != nil {
			return err
		}
		if o.Status() != order.Completed {
			return errs.NewStateConflictError("order", o.Status().String(), order.OperationConfirmService)
		}

		exec, err := tx.Executions().GetByOrder(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = exec.Confirm(); err != nil {
			return err
		}
		if err = tx.Executions().Update(tx.Context(), exec); err != nil {
			return err
		}

		appointments, err := tx.Appointments().ListByOrder(tx.Context(), orderID)
		if err != nil {
			return err
		}
		for _, a := range appointments {
			if a.Status().IsTerminal() {
				continue
			}
			if err = a.Complete(); err != nil {
				return err
			}
			if err = tx.Appointments().Update(tx.Context(), a); err != nil {
				return err
			}
		}

		coordinators, err := tx.ActiveCoordinatorIDs()
		if err != nil {
			return err
		}
		tx.Notify(&orderID, notification.TypeServiceConfirmed,
			fmt.Sprintf("El cliente confirmó el servicio de la orden %s", o.Number()),
			append(technicianOf(o), coordinators...)...)
		tx.Audit(&orderID, audit.ActionConfirmService,
			fmt.Sprintf("Servicio de la orden %s confirmado por el cliente", o.Number()))
		return nil
	})
}
