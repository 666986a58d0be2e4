package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

type CancelOrderCommandHandler struct {
	engine *Engine
}

func NewCancelOrderCommandHandler(engine *Engine) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{engine: engine}
}

// Handle cancels the order together with its open appointments. The client and
// the technician that was assigned are notified.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationCancel, command.Actor(), &orderID, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), order.OperationCancel, kernel.RoleAgent, kernel.RoleCoordinator); err != nil {
			return err
		}

		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		previousTechnician := technicianOf(o)
		if err = o.Cancel(command.Reason()); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
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
			if err = a.Cancel(); err != nil {
				return err
			}
			if err = tx.Appointments().Update(tx.Context(), a); err != nil {
				return err
			}
		}

		message := fmt.Sprintf("La orden %s fue cancelada", o.Number())
		if o.CancellationReason() != "" {
			message += ". Motivo: " + o.CancellationReason()
		}
		tx.Notify(&orderID, notification.TypeOrderCancelled, message,
			append([]kernel.UUID{o.ClientID()}, previousTechnician...)...)
		tx.Audit(&orderID, audit.ActionCancelOrder, message)
		return nil
	})
}
