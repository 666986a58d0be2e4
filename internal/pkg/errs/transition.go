package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for lifecycle transitions.
var (
	ErrValidationFailed           = errors.New("validation failed")
	ErrStateConflict              = errors.New("state conflict")
	ErrAlreadyStarted             = errors.New("work already started")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrTechnicianUnavailable      = errors.New("technician unavailable")
	ErrPersistenceFailure         = errors.New("persistence failure")
	ErrNotificationPartialFailure = errors.New("notification partial failure")
)

// Check is one failed precondition of a ValidationError.
type Check struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError lists every unmet precondition of a transition.
type ValidationError struct {
	Checks []Check
}

// NewValidationError creates a ValidationError from the failed checks.
func NewValidationError(checks ...Check) *ValidationError {
	return &ValidationError{Checks: checks}
}

func (e *ValidationError) Error() string {
	codes := make([]string, 0, len(e.Checks))
	for _, c := range e.Checks {
		codes = append(codes, c.Code)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(codes, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Has reports whether the check with the given code failed.
func (e *ValidationError) Has(code string) bool {
	for _, c := range e.Checks {
		if c.Code == code {
			return true
		}
	}
	return false
}

// StateConflictError reports an operation that is illegal from the current state.
type StateConflictError struct {
	Entity    string
	State     string
	Operation string
}

// NewStateConflictError creates a StateConflictError.
func NewStateConflictError(entity, state, operation string) *StateConflictError {
	return &StateConflictError{Entity: entity, State: state, Operation: operation}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s in state %s cannot %s", ErrStateConflict, e.Entity, e.State, e.Operation)
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// AlreadyStartedError reports a second start of work on the same order.
type AlreadyStartedError struct {
	OrderID string
}

// NewAlreadyStartedError creates an AlreadyStartedError.
func NewAlreadyStartedError(orderID string) *AlreadyStartedError {
	return &AlreadyStartedError{OrderID: orderID}
}

func (e *AlreadyStartedError) Error() string {
	return fmt.Sprintf("%s: order %s", ErrAlreadyStarted, e.OrderID)
}

func (e *AlreadyStartedError) Unwrap() []error {
	return []error{ErrAlreadyStarted, ErrStateConflict}
}

// UnauthorizedError reports an actor without the role or ownership an operation needs.
type UnauthorizedError struct {
	ActorID   string
	Operation string
	Reason    string
}

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(actorID, operation, reason string) *UnauthorizedError {
	return &UnauthorizedError{ActorID: actorID, Operation: operation, Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: actor %s cannot %s: %s", ErrUnauthorized, e.ActorID, e.Operation, e.Reason)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// TechnicianUnavailableError reports an assignment to an inactive technician.
type TechnicianUnavailableError struct {
	TechnicianID string
}

// NewTechnicianUnavailableError creates a TechnicianUnavailableError.
func NewTechnicianUnavailableError(technicianID string) *TechnicianUnavailableError {
	return &TechnicianUnavailableError{TechnicianID: technicianID}
}

func (e *TechnicianUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTechnicianUnavailable, e.TechnicianID)
}

func (e *TechnicianUnavailableError) Unwrap() error {
	return ErrTechnicianUnavailable
}

// PersistenceError wraps a storage failure. Retryable is true when repeating the
// whole transition is safe.
type PersistenceError struct {
	Operation string
	Retryable bool
	Cause     error
}

// NewPersistenceError creates a PersistenceError.
func NewPersistenceError(operation string, retryable bool, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Retryable: retryable, Cause: cause}
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistenceFailure, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPersistenceFailure, e.Operation)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistenceFailure}
	}
	return []error{ErrPersistenceFailure, e.Cause}
}

// NotificationPartialFailureError reports fan-out rows that could not be written.
// It never aborts the transition that produced it.
type NotificationPartialFailureError struct {
	Event  string
	Failed int
	Total  int
	Causes []error
}

// NewNotificationPartialFailureError creates a NotificationPartialFailureError.
func NewNotificationPartialFailureError(event string, failed, total int, causes []error) *NotificationPartialFailureError {
	return &NotificationPartialFailureError{Event: event, Failed: failed, Total: total, Causes: causes}
}

func (e *NotificationPartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s delivered to %d of %d recipients",
		ErrNotificationPartialFailure, e.Event, e.Total-e.Failed, e.Total)
}

func (e *NotificationPartialFailureError) Unwrap() error {
	return ErrNotificationPartialFailure
}
