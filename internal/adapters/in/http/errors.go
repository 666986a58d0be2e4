package http

import (
	"errors"
	"fmt"
	"net/http"

	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request. Kind tells the caller
// whether to fix the input, retry, or accept that the order already moved on.
type ErrorResponse struct {
	Kind      string       `json:"kind"`
	Message   string       `json:"message"`
	Retryable bool         `json:"retryable"`
	Checks    []errs.Check `json:"checks,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusUnprocessableEntity
	case errs.KindStateConflict, errs.KindTechnicianUnavailable:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindUnauthorized:
		return http.StatusForbidden
	case errs.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the status and body for err. Internal errors hide their message.
func NewErrorResponse(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{Kind: transportKind(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	}

	kind := errs.KindOf(err)
	if kind == errs.KindNone || kind == errs.KindNotificationPartialFailure {
		kind = errs.KindInternal
	}
	resp := ErrorResponse{
		Kind:      string(kind),
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	}
	if kind == errs.KindInternal {
		resp.Message = "internal error"
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		resp.Checks = validationErr.Checks
	}
	return StatusOf(kind), resp
}

// ErrorHandler renders every error returned by a handler or middleware as an
// ErrorResponse. Server errors are logged with their cause.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := NewErrorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error(c.Request().Context(), "write error response", err)
		}
	}
}

func transportKind(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusNotFound:
		return "route_not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "http_error"
	}
}
