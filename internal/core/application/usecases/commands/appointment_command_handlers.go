package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
)

const (
	OperationConfirmAppointment   = "confirm appointment"
	OperationRequestReprogram     = "request reprogram"
	OperationReproposeAppointment = "repropose appointment"
)

type ConfirmAppointmentCommandHandler struct {
	engine *Engine
}

func NewConfirmAppointmentCommandHandler(engine *Engine) ConfirmAppointmentCommandHandler {
	return ConfirmAppointmentCommandHandler{engine: engine}
}

// Handle confirms the visit and notifies the technician and every active coordinator.
func (h ConfirmAppointmentCommandHandler) Handle(
	ctx context.Context,
	command ConfirmAppointmentCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	return h.engine.RunForAppointment(ctx, OperationConfirmAppointment, command.Actor(), command.AppointmentID(),
		func(tx *Tx, a *appointment.Appointment, o *order.ServiceOrder) error {
			if err := requireOrderClient(tx.Actor(), o, OperationConfirmAppointment); err != nil {
				return err
			}
			if err := requireNegotiable(tx, o, a, OperationConfirmAppointment); err != nil {
				return err
			}
			if err := a.Confirm(tx.Now()); err != nil {
				return err
			}
			if err := tx.Appointments().Update(tx.Context(), a); err != nil {
				return err
			}

			coordinators, err := tx.ActiveCoordinatorIDs()
			if err != nil {
				return err
			}
			orderID := o.ID()
			visit := formatVisit(tx, a.ScheduledAt())
			tx.Notify(&orderID, notification.TypeAppointmentConfirmed,
				fmt.Sprintf("El cliente confirmó la visita de la orden %s para el %s", o.Number(), visit),
				append(technicianOf(o), coordinators...)...)
			tx.Audit(&orderID, audit.ActionConfirmAppointment,
				fmt.Sprintf("Cita del %s confirmada para la orden %s", visit, o.Number()))
			return nil
		})
}

type RequestReprogramCommandHandler struct {
	engine *Engine
}

func NewRequestReprogramCommandHandler(engine *Engine) RequestReprogramCommandHandler {
	return RequestReprogramCommandHandler{engine: engine}
}

// Handle records the client's request. Only the supervising coordinator is
// notified; orders without one notify every active coordinator instead.
func (h RequestReprogramCommandHandler) Handle(
	ctx context.Context,
	command RequestReprogramCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	return h.engine.RunForAppointment(ctx, OperationRequestReprogram, command.Actor(), command.AppointmentID(),
		func(tx *Tx, a *appointment.Appointment, o *order.ServiceOrder) error {
			if err := requireOrderClient(tx.Actor(), o, OperationRequestReprogram); err != nil {
				return err
			}
			if err := requireNegotiable(tx, o, a, OperationRequestReprogram); err != nil {
				return err
			}
			if err := a.RequestReprogram(command.NewAt(), command.Reason(), tx.Now()); err != nil {
				return err
			}
			if err := tx.Appointments().Update(tx.Context(), a); err != nil {
				return err
			}

			supervisors, err := supervisorsOf(tx, o)
			if err != nil {
				return err
			}
			orderID := o.ID()
			visit := formatVisit(tx, a.ScheduledAt())
			tx.Notify(&orderID, notification.TypeReprogramRequested,
				fmt.Sprintf("El cliente de la orden %s solicita reprogramar la visita al %s. Motivo: %s",
					o.Number(), visit, a.ReprogramReason()),
				supervisors...)
			tx.Audit(&orderID, audit.ActionRequestReprogram,
				fmt.Sprintf("Reprogramación solicitada para el %s. Motivo: %s", visit, a.ReprogramReason()))
			return nil
		})
}

type ReproposeAppointmentCommandHandler struct {
	engine *Engine
}

func NewReproposeAppointmentCommandHandler(engine *Engine) ReproposeAppointmentCommandHandler {
	return ReproposeAppointmentCommandHandler{engine: engine}
}

// Handle proposes the appointment again and asks the client for confirmation.
func (h ReproposeAppointmentCommandHandler) Handle(
	ctx context.Context,
	command ReproposeAppointmentCommand,
) (TransitionResult, error) {
	if err := command.Validate(); err != nil {
		return TransitionResult{}, err
	}

	return h.engine.RunForAppointment(ctx, OperationReproposeAppointment, command.Actor(), command.AppointmentID(),
		func(tx *Tx, a *appointment.Appointment, o *order.ServiceOrder) error {
			if err := requireRole(tx.Actor(), OperationReproposeAppointment, kernel.RoleCoordinator); err != nil {
				return err
			}
			if err := requireNegotiable(tx, o, a, OperationReproposeAppointment); err != nil {
				return err
			}

			at := command.ScheduledAt()
			if at.IsZero() {
				at = a.ScheduledAt()
			}
			if err := a.Repropose(at, tx.Now()); err != nil {
				return err
			}
			if err := tx.Appointments().Update(tx.Context(), a); err != nil {
				return err
			}

			orderID := o.ID()
			visit := formatVisit(tx, a.ScheduledAt())
			tx.Notify(&orderID, notification.TypeAppointmentProposed,
				fmt.Sprintf("Se propuso una nueva visita para la orden %s el %s. Confirme o solicite reprogramación",
					o.Number(), visit),
				o.ClientID())
			tx.Audit(&orderID, audit.ActionReproposeAppointment,
				fmt.Sprintf("Cita repropuesta para el %s en la orden %s", visit, o.Number()))
			return nil
		})
}
