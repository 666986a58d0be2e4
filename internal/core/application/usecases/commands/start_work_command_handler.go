package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"
)

// StartWorkCommandHandler opens the single execution record of an order.
type StartWorkCommandHandler struct {
	engine *Engine
}

func NewStartWorkCommandHandler(engine *Engine) StartWorkCommandHandler {
	return StartWorkCommandHandler{engine: engine}
}

// Handle starts the work. A second start is refused with AlreadyStartedError even
// when the order was reopened, so an order never has more than one execution.
func (h StartWorkCommandHandler) Handle(ctx context.Context, command StartWorkCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationStartWork, command.Actor(), &orderID, func(tx *Tx) error {
		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if err = requireAssignedTechnician(tx.Actor(), o, order.OperationStartWork); err != nil {
			return err
		}

		started, err := tx.Executions().CountByOrder(tx.Context(), orderID)
		if err != nil {
			return err
		}
		if started > 0 {
			return errs.NewAlreadyStartedError(orderID.String())
		}

		if err = o.StartWork(); err != nil {
			return err
		}
		exec, err := order.StartExecution(kernel.NewUUID(), orderID, tx.Actor().UserID(), tx.Now())
		if err != nil {
			return err
		}
		if err = tx.Executions().Add(tx.Context(), exec); err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}

		tx.Audit(&orderID, audit.ActionStartWork,
			fmt.Sprintf("Trabajo iniciado en la orden %s a las %s", o.Number(), formatVisit(tx, exec.StartedAt())))
		return nil
	})
}
