package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"
)

// AssignTechnicianCommandHandler assigns orders and creates their first appointment.
type AssignTechnicianCommandHandler struct {
	engine   *Engine
	resolver services.AssignmentResolver
}

func NewAssignTechnicianCommandHandler(engine *Engine) AssignTechnicianCommandHandler {
	return AssignTechnicianCommandHandler{
		engine:   engine,
		resolver: services.NewAssignmentResolver(),
	}
}

// Handle assigns the technician, resolves the supervising coordinator once and
// proposes the appointment. Checks run in this order: order state, technician
// availability, then the visit date.
func (h AssignTechnicianCommandHandler) Handle(ctx context.Context, command AssignTechnicianCommand) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	orderID := command.OrderID()
	return h.engine.Run(ctx, order.OperationAssign, command.Actor(), &orderID, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), order.OperationAssign, kernel.RoleCoordinator); err != nil {
			return err
		}

		o, err := tx.Orders().GetForUpdate(tx.Context(), orderID)
		if err != nil {
			return err
		}
		tech, err := tx.Technicians().Get(tx.Context(), command.TechnicianID())
		if err != nil {
			return err
		}
		candidates, err := tx.Coordinators().ListActive(tx.Context())
		if err != nil {
			return err
		}

		supervisor, err := h.resolver.Assign(o, tech, candidates, tx.Now())
		if err != nil {
			return err
		}
		if !command.ScheduledAt().After(tx.Now()) {
			return errs.NewValidationError(errs.Check{
				Code:    appointment.CheckScheduleInPast,
				Message: "the visit must be scheduled in the future",
			})
		}

		a, err := appointment.NewAppointment(kernel.NewUUID(), orderID, command.ScheduledAt(), tx.Now())
		if err != nil {
			return err
		}
		if err = tx.Orders().Update(tx.Context(), o); err != nil {
			return err
		}
		if err = tx.Appointments().Add(tx.Context(), a); err != nil {
			return err
		}
		tx.SetAppointment(a.ID())

		visit := formatVisit(tx, a.ScheduledAt())
		tx.Notify(&orderID, notification.TypeTechnicianAssigned,
			fmt.Sprintf("Se le asignó la orden %s (%s) en %s. Visita propuesta: %s",
				o.Number(), o.ServiceType(), o.Address(), visit),
			tech.ID())
		tx.Notify(&orderID, notification.TypeAppointmentProposed,
			fmt.Sprintf("Se propuso una visita para la orden %s el %s. Confirme o solicite reprogramación",
				o.Number(), visit),
			o.ClientID())

		description := fmt.Sprintf("Técnico %s asignado a la orden %s; cita propuesta para %s",
			tech.Name(), o.Number(), visit)
		if supervisor != nil {
			description += fmt.Sprintf("; coordinador supervisor %s", supervisor.Name())
		}
		tx.Audit(&orderID, audit.ActionAssignTechnician, description)
		return nil
	})
}
