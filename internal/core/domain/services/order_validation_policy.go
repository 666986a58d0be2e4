package services

import (
	"unicode/utf8"

	"fieldservice/internal/core/domain/model/client"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"
)

// Validation check codes reported by OrderValidationPolicy.
const (
	CheckClientInactive     = "client_inactive"
	CheckDescriptionShort   = "description_too_short"
	CheckAddressMissing     = "address_missing"
	CheckContactDataMissing = "contact_data_missing"
)

// MinDescriptionLength is the minimum number of characters of an order description.
const MinDescriptionLength = 20

// OrderValidationPolicy is a domain service deciding whether a created order may be
// validated by an agent.
//
// Business rules:
//   - The order must be Created; any other state is a conflict
//   - The client account must be active
//   - The description must have at least MinDescriptionLength characters
//   - The service address must not be empty
//   - The client must have both phone and email on file
//
// All four content checks are evaluated on every call so the caller can show
// every unmet check at once.
//
// Example usage:
//
//	policy := services.NewOrderValidationPolicy()
//	if err := policy.Validate(o, c); err != nil {
//	    var validation *errs.ValidationError
//	    if errors.As(err, &validation) {
//	        // validation.Checks lists every failing check
//	    }
//	}
type OrderValidationPolicy struct{}

// NewOrderValidationPolicy creates a new OrderValidationPolicy instance.
func NewOrderValidationPolicy() OrderValidationPolicy {
	return OrderValidationPolicy{}
}

// Check evaluates the content checks without changing the order.
//
// Returns:
//   - error: StateConflictError when the order is not Created, a ValidationError
//     listing every failing check, or nil
func (p OrderValidationPolicy) Check(o *order.ServiceOrder, c *client.Client) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := o.Status().Approve(); err != nil {
		return err
	}

	var checks []errs.Check
	if !c.IsActive() {
		checks = append(checks, errs.Check{Code: CheckClientInactive, Message: "client account is not active"})
	}
	if utf8.RuneCountInString(o.Description()) < MinDescriptionLength {
		checks = append(checks, errs.Check{Code: CheckDescriptionShort, Message: "description must have at least 20 characters"})
	}
	if o.Address() == "" {
		checks = append(checks, errs.Check{Code: CheckAddressMissing, Message: "service address is required"})
	}
	if !c.HasContactData() {
		checks = append(checks, errs.Check{Code: CheckContactDataMissing, Message: "client must have phone and email on file"})
	}

	if len(checks) > 0 {
		return errs.NewValidationError(checks...)
	}
	return nil
}

// Validate runs Check and, when every check passes, moves the order to Validated.
func (p OrderValidationPolicy) Validate(o *order.ServiceOrder, c *client.Client) error {
	if err := p.Check(o, c); err != nil {
		return err
	}
	return o.Approve()
}
