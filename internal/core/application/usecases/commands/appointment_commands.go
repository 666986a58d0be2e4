package commands

import (
	"errors"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

var (
	ErrConfirmAppointmentCommandIsNotConstructed = errors.New(
		"ConfirmAppointmentCommand must be created via NewConfirmAppointmentCommand constructor",
	)
	ErrRequestReprogramCommandIsNotConstructed = errors.New(
		"RequestReprogramCommand must be created via NewRequestReprogramCommand constructor",
	)
	ErrReproposeAppointmentCommandIsNotConstructed = errors.New(
		"ReproposeAppointmentCommand must be created via NewReproposeAppointmentCommand constructor",
	)
)

// ConfirmAppointmentCommand is the client's acceptance of a proposed visit.
type ConfirmAppointmentCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	appointmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmAppointmentCommand(actor kernel.Actor, appointmentID kernel.UUID) (ConfirmAppointmentCommand, error) {
	if err := errors.Join(actor.Validate(), appointmentID.Validate()); err != nil {
		return ConfirmAppointmentCommand{}, err
	}
	return ConfirmAppointmentCommand{
		actor:         actor,
		appointmentID: appointmentID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAppointmentCommandIsNotConstructed)
}

func (c ConfirmAppointmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ConfirmAppointmentCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

// RequestReprogramCommand is the client's request to move a proposed visit.
// The reason and the new date are checked together by the appointment.
type RequestReprogramCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	appointmentID kernel.UUID
	newAt         time.Time
	reason        string

	guard guard.ConstructorGuard
}

func NewRequestReprogramCommand(
	actor kernel.Actor,
	appointmentID kernel.UUID,
	newAt time.Time,
	reason string,
) (RequestReprogramCommand, error) {
	var dateErr error
	if newAt.IsZero() {
		dateErr = errs.NewValueIsRequiredError("new date")
	}
	if err := errors.Join(actor.Validate(), appointmentID.Validate(), dateErr); err != nil {
		return RequestReprogramCommand{}, err
	}
	return RequestReprogramCommand{
		actor:         actor,
		appointmentID: appointmentID,
		newAt:         newAt,
		reason:        strings.TrimSpace(reason),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c RequestReprogramCommand) Validate() error {
	return c.guard.Validate(ErrRequestReprogramCommandIsNotConstructed)
}

func (c RequestReprogramCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RequestReprogramCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

func (c RequestReprogramCommand) NewAt() time.Time {
	return c.newAt
}

func (c RequestReprogramCommand) Reason() string {
	return c.reason
}

// ReproposeAppointmentCommand is the coordinator's answer to a reprogram
// request. A zero scheduledAt keeps the date the client asked for.
type ReproposeAppointmentCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	appointmentID kernel.UUID
	scheduledAt   time.Time

	guard guard.ConstructorGuard
}

func NewReproposeAppointmentCommand(
	actor kernel.Actor,
	appointmentID kernel.UUID,
	scheduledAt time.Time,
) (ReproposeAppointmentCommand, error) {
	if err := errors.Join(actor.Validate(), appointmentID.Validate()); err != nil {
		return ReproposeAppointmentCommand{}, err
	}
	return ReproposeAppointmentCommand{
		actor:         actor,
		appointmentID: appointmentID,
		scheduledAt:   scheduledAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ReproposeAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrReproposeAppointmentCommandIsNotConstructed)
}

func (c ReproposeAppointmentCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ReproposeAppointmentCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

func (c ReproposeAppointmentCommand) ScheduledAt() time.Time {
	return c.scheduledAt
}

// requireNegotiable refuses appointment changes once the order left the
// Assigned/InProgress window or when a newer appointment superseded a.
func requireNegotiable(tx *Tx, o *order.ServiceOrder, a *appointment.Appointment, operation string) error {
	if o.Status() != order.Assigned && o.Status() != order.InProgress {
		return errs.NewStateConflictError("order", o.Status().String(), operation)
	}
	active, err := tx.Appointments().GetActiveByOrder(tx.Context(), o.ID())
	if err != nil {
		return err
	}
	if !active.ID().IsEqual(a.ID()) {
		return errs.NewStateConflictError("appointment", "superseded", operation)
	}
	return nil
}
