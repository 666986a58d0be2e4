package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fieldservice/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// RequestValidator validates request bodies with struct tags and reports every
// failing field as a check of one ValidationError.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	checks := make([]errs.Check, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		checks = append(checks, errs.Check{
			Code:    fe.Field() + "_" + fe.Tag(),
			Message: fe.Field() + " " + validationMessage(fe),
		})
	}
	return errs.NewValidationError(checks...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "required_with":
		return fmt.Sprintf("is required together with %s", fe.Param())
	}
	return "is invalid"
}
