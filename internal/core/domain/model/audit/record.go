// Package audit provides the append-only AuditRecord documenting who did what to
// an order and why.
package audit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Action is the code of an audited operation.
type Action string

const (
	ActionCreateOrder          Action = "CREATE_ORDER"
	ActionValidateOrder        Action = "VALIDATE_ORDER"
	ActionRejectOrder          Action = "REJECT_ORDER"
	ActionAssignTechnician     Action = "ASSIGN_TECHNICIAN"
	ActionConfirmAppointment   Action = "CONFIRM_APPOINTMENT"
	ActionRequestReprogram     Action = "REQUEST_REPROGRAM"
	ActionReproposeAppointment Action = "REPROPOSE_APPOINTMENT"
	ActionStartWork            Action = "START_WORK"
	ActionFinishWork           Action = "FINISH_WORK"
	ActionConfirmService       Action = "CONFIRM_SERVICE"
	ActionRejectService        Action = "REJECT_SERVICE"
	ActionCancelOrder          Action = "CANCEL_ORDER"
	ActionCreateTechnician     Action = "CREATE_TECHNICIAN"
	ActionUpdateTechnician     Action = "UPDATE_TECHNICIAN"
)

func (a Action) Validate() error {
	value := string(a)
	if value == "" || strings.ToUpper(value) != value || strings.ContainsAny(value, " \t\n") {
		return errs.NewValueIsInvalidErrorWithCause("audit action", fmt.Errorf("%q is not an action code", value))
	}
	return nil
}

// Record is one immutable audit entry.
type Record struct {
	id          kernel.UUID
	actorID     kernel.UUID
	orderID     *kernel.UUID
	action      Action
	description string
	at          time.Time

	isConstructed bool
}

// NewRecord creates an audit entry. orderID is nil for actions not tied to an order.
func NewRecord(id, actorID kernel.UUID, orderID *kernel.UUID, action Action, description string, at time.Time) (*Record, error) {
	var orderErr, atErr error
	if orderID != nil {
		orderErr = orderID.Validate()
	}
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("recorded at")
	}
	if err := errors.Join(id.Validate(), actorID.Validate(), orderErr, action.Validate(), atErr); err != nil {
		return nil, err
	}
	return &Record{
		id:            id,
		actorID:       actorID,
		orderID:       orderID,
		action:        action,
		description:   strings.TrimSpace(description),
		at:            at,
		isConstructed: true,
	}, nil
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ID() kernel.UUID {
	return r.id
}

func (r *Record) ActorID() kernel.UUID {
	return r.actorID
}

func (r *Record) OrderID() *kernel.UUID {
	return r.orderID
}

func (r *Record) Action() Action {
	return r.action
}

func (r *Record) Description() string {
	return r.description
}

func (r *Record) At() time.Time {
	return r.at
}
