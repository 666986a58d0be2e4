package appointment

import (
	"errors"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

// Validation check codes.
const (
	CheckReprogramReason = "reprogram_reason_required"
	CheckScheduleInPast  = "scheduled_at_not_in_future"
)

// Operation names used in state conflicts.
const (
	OperationConfirm   = "confirm"
	OperationReprogram = "request reprogram"
	OperationRepropose = "repropose"
	OperationCancel    = "cancel"
	OperationComplete  = "complete"
)

var ErrAppointmentIsNotConstructed = errors.New("Appointment must be created via NewAppointment constructor")

// Appointment is a proposed or confirmed visit date for one order. An order may
// accumulate several appointments; the most recently created one is active.
type Appointment struct {
	id              kernel.UUID
	orderID         kernel.UUID
	scheduledAt     time.Time
	status          Status
	reprogramReason string
	confirmedAt     *time.Time
	createdAt       time.Time

	isConstructed bool
}

// NewAppointment proposes scheduledAt for the order.
//
// Example:
//
//	visit, err := clk.Combine("2025-01-10", "10:00")
//	a, err := appointment.NewAppointment(kernel.NewUUID(), orderID, visit, clk.Now())
func NewAppointment(id, orderID kernel.UUID, scheduledAt, createdAt time.Time) (*Appointment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if scheduledAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("scheduled at")
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("created at")
	}
	return &Appointment{
		id:            id,
		orderID:       orderID,
		scheduledAt:   scheduledAt,
		status:        Proposed,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreAppointment rebuilds an appointment from persistence.
func RestoreAppointment(
	id, orderID kernel.UUID,
	scheduledAt time.Time,
	status Status,
	reprogramReason string,
	confirmedAt *time.Time,
	createdAt time.Time,
) (*Appointment, error) {
	a, err := NewAppointment(id, orderID, scheduledAt, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	a.status = status
	a.reprogramReason = reprogramReason
	a.confirmedAt = confirmedAt
	return a, nil
}

func (a *Appointment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAppointmentIsNotConstructed
	}
	return nil
}

func (a *Appointment) ID() kernel.UUID {
	return a.id
}

func (a *Appointment) OrderID() kernel.UUID {
	return a.orderID
}

func (a *Appointment) ScheduledAt() time.Time {
	return a.scheduledAt
}

func (a *Appointment) Status() Status {
	return a.status
}

func (a *Appointment) ReprogramReason() string {
	return a.reprogramReason
}

func (a *Appointment) ConfirmedAt() *time.Time {
	return a.confirmedAt
}

func (a *Appointment) CreatedAt() time.Time {
	return a.createdAt
}

// Confirm records the client's acceptance of the proposed date.
func (a *Appointment) Confirm(now time.Time) error {
	if a.status != Proposed {
		return errs.NewStateConflictError("appointment", a.status.String(), OperationConfirm)
	}
	a.status = Confirmed
	a.confirmedAt = &now
	return nil
}

// RequestReprogram records the client's request to move the visit to newAt.
// Both the reason and the future date are checked and reported together.
func (a *Appointment) RequestReprogram(newAt time.Time, reason string, now time.Time) error {
	if a.status != Proposed {
		return errs.NewStateConflictError("appointment", a.status.String(), OperationReprogram)
	}

	reason = strings.TrimSpace(reason)
	var checks []errs.Check
	if reason == "" {
		checks = append(checks, errs.Check{Code: CheckReprogramReason, Message: "a reason for reprogramming is required"})
	}
	if !newAt.After(now) {
		checks = append(checks, errs.Check{Code: CheckScheduleInPast, Message: "the new date must be in the future"})
	}
	if len(checks) > 0 {
		return errs.NewValidationError(checks...)
	}

	a.status = Reprogrammed
	a.scheduledAt = newAt
	a.reprogramReason = reason
	a.confirmedAt = nil
	return nil
}

// Repropose puts a reprogrammed appointment back up for client confirmation at
// scheduledAt. The client's reason is kept.
func (a *Appointment) Repropose(scheduledAt time.Time, now time.Time) error {
	if a.status != Reprogrammed {
		return errs.NewStateConflictError("appointment", a.status.String(), OperationRepropose)
	}
	if !scheduledAt.After(now) {
		return errs.NewValidationError(errs.Check{Code: CheckScheduleInPast, Message: "the new date must be in the future"})
	}
	a.status = Proposed
	a.scheduledAt = scheduledAt
	a.confirmedAt = nil
	return nil
}

// Cancel ends a non-terminal appointment.
func (a *Appointment) Cancel() error {
	if a.status.IsTerminal() {
		return errs.NewStateConflictError("appointment", a.status.String(), OperationCancel)
	}
	a.status = Cancelled
	return nil
}

// Complete closes the appointment once the client confirmed the service.
func (a *Appointment) Complete() error {
	if a.status.IsTerminal() {
		return errs.NewStateConflictError("appointment", a.status.String(), OperationComplete)
	}
	a.status = Completed
	return nil
}
