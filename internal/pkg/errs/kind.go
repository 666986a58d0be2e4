package errs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Kind is the coarse classification transports react to.
type Kind string

const (
	KindNone                       Kind = ""
	KindValidation                 Kind = "validation"
	KindStateConflict              Kind = "state_conflict"
	KindNotFound                   Kind = "not_found"
	KindUnauthorized               Kind = "unauthorized"
	KindTechnicianUnavailable      Kind = "technician_unavailable"
	KindPersistence                Kind = "persistence"
	KindNotificationPartialFailure Kind = "notification_partial_failure"
	KindInternal                   Kind = "internal"
)

// retryablePGCodes are SQLSTATE codes after which the whole transition can be repeated.
var retryablePGCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"57014": {}, // query_canceled (statement timeout)
}

// KindOf classifies err. A nil error has KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidationFailed),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	case errors.Is(err, ErrStateConflict):
		return KindStateConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrTechnicianUnavailable):
		return KindTechnicianUnavailable
	case errors.Is(err, ErrPersistenceFailure):
		return KindPersistence
	case errors.Is(err, ErrNotificationPartialFailure):
		return KindNotificationPartialFailure
	default:
		return KindInternal
	}
}

// IsRetryable reports whether err is a PersistenceError flagged retryable.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// ClassifyPersistence wraps a storage error into a PersistenceError. Errors that
// already carry a domain kind pass through untouched.
func ClassifyPersistence(operation string, err error) error {
	if err == nil {
		return nil
	}
	if kind := KindOf(err); kind != KindInternal {
		return err
	}
	return NewPersistenceError(operation, isRetryableStorageError(err), err)
}

func isRetryableStorageError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryablePGCodes[pgErr.Code]
		return ok
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := retryablePGCodes[string(pqErr.Code)]
		return ok
	}

	return false
}
