// Package errs provides the standardized error types of the field-service engine.
// It keeps one pattern for error creation, formatting and unwrapping across the
// domain, application and adapter layers.
//
// Value errors, raised by constructors and setters:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value lies outside its bounds
//
// Transition errors, raised by the order lifecycle:
//   - ValidationError: user-correctable preconditions, always listing every failing check
//   - StateConflictError: the transition is illegal from the current state
//   - AlreadyStartedError: work was already started on the order (a state conflict)
//   - ObjectNotFoundError: a referenced order, technician or appointment is missing
//   - UnauthorizedError: the actor lacks the role or ownership for the transition
//   - TechnicianUnavailableError: the requested technician is not active
//   - PersistenceError: the storage layer failed; carries a retryable flag
//   - NotificationPartialFailureError: some fan-out rows were not written (non-fatal)
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g., ErrStateConflict)
//   - a struct type with the error details
//   - constructor functions
//   - Error() for formatting and Unwrap() for errors.Is support
//
// KindOf collapses any error into a Kind so transports can tell "fix your input"
// from "retry" from "already in this state" without inspecting concrete types.
package errs
