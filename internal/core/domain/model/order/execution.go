package order

import (
	"errors"
	"strings"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

// CheckWorkSummary is the validation check code for an empty work summary.
const CheckWorkSummary = "work_summary_required"

// ErrExecutionIsNotConstructed is returned for a zero-value Execution.
var ErrExecutionIsNotConstructed = errors.New("Execution must be created via StartExecution constructor")

// Result is the technician's outcome of the executed work.
type Result string

const (
	ResultNone      Result = ""
	ResultCompleted Result = "Completado"
)

// ClientConfirmation is the client's verdict on finished work.
type ClientConfirmation string

const (
	ConfirmationNone      ClientConfirmation = ""
	ConfirmationPending   ClientConfirmation = "Pendiente"
	ConfirmationConfirmed ClientConfirmation = "Confirmada"
	ConfirmationRejected  ClientConfirmation = "Rechazada"
)

// ParseClientConfirmation normalizes stored confirmation values.
func ParseClientConfirmation(raw string) (ClientConfirmation, error) {
	switch normalizeText(raw) {
	case "":
		return ConfirmationNone, nil
	case "pendiente":
		return ConfirmationPending, nil
	case "confirmada", "confirmado", "aceptada":
		return ConfirmationConfirmed, nil
	case "rechazada", "rechazado":
		return ConfirmationRejected, nil
	default:
		return ConfirmationNone, errs.NewValueIsInvalidError("client confirmation")
	}
}

// Execution records the technician's work on an order. There is at most one per
// order; it is opened by StartWork and closed by FinishWork.
type Execution struct {
	id           kernel.UUID
	orderID      kernel.UUID
	technicianID kernel.UUID
	startedAt    time.Time
	finishedAt   *time.Time
	summary      string
	result       Result
	confirmation ClientConfirmation

	isConstructed bool
}

// StartExecution opens the execution record of an order.
func StartExecution(id, orderID, technicianID kernel.UUID, startedAt time.Time) (*Execution, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), technicianID.Validate()); err != nil {
		return nil, err
	}
	if startedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("started at")
	}
	return &Execution{
		id:            id,
		orderID:       orderID,
		technicianID:  technicianID,
		startedAt:     startedAt,
		isConstructed: true,
	}, nil
}

// RestoreExecution rebuilds an execution record from persistence.
func RestoreExecution(
	id, orderID, technicianID kernel.UUID,
	startedAt time.Time,
	finishedAt *time.Time,
	summary string,
	result Result,
	confirmation ClientConfirmation,
) (*Execution, error) {
	e, err := StartExecution(id, orderID, technicianID, startedAt)
	if err != nil {
		return nil, err
	}
	e.finishedAt = finishedAt
	e.summary = summary
	e.result = result
	e.confirmation = confirmation
	return e, nil
}

func (e *Execution) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrExecutionIsNotConstructed
	}
	return nil
}

func (e *Execution) ID() kernel.UUID {
	return e.id
}

func (e *Execution) OrderID() kernel.UUID {
	return e.orderID
}

func (e *Execution) TechnicianID() kernel.UUID {
	return e.technicianID
}

func (e *Execution) StartedAt() time.Time {
	return e.startedAt
}

func (e *Execution) FinishedAt() *time.Time {
	return e.finishedAt
}

func (e *Execution) Summary() string {
	return e.summary
}

func (e *Execution) Result() Result {
	return e.result
}

func (e *Execution) Confirmation() ClientConfirmation {
	return e.confirmation
}

// IsOpen reports whether work started and has not finished.
func (e *Execution) IsOpen() bool {
	return e.finishedAt == nil
}

// Finish closes the record and asks the client for confirmation.
func (e *Execution) Finish(summary string, at time.Time) error {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return errs.NewValidationError(errs.Check{Code: CheckWorkSummary, Message: "work summary is required"})
	}
	if !e.IsOpen() {
		return errs.NewStateConflictError("execution", "finished", OperationFinishWork)
	}
	e.finishedAt = &at
	e.summary = summary
	e.result = ResultCompleted
	e.confirmation = ConfirmationPending
	return nil
}

// Confirm records the client's acceptance of the finished work.
func (e *Execution) Confirm() error {
	if e.confirmation != ConfirmationPending {
		return errs.NewStateConflictError("execution", confirmationLabel(e.confirmation), OperationConfirmService)
	}
	e.confirmation = ConfirmationConfirmed
	return nil
}

// Reject records the client's rejection and reopens the record so the
// technician can finish the work again.
func (e *Execution) Reject() error {
	if e.confirmation != ConfirmationPending {
		return errs.NewStateConflictError("execution", confirmationLabel(e.confirmation), OperationRejectService)
	}
	e.confirmation = ConfirmationRejected
	e.finishedAt = nil
	e.result = ResultNone
	return nil
}

func confirmationLabel(c ClientConfirmation) string {
	if c == ConfirmationNone {
		return "open"
	}
	return string(c)
}
