// Package services provides domain services that apply business rules spanning
// more than one aggregate of the field-service engine.
//
// The package includes:
//   - OrderValidationPolicy: decides whether a created order may be validated, reporting every failing check
//   - AssignmentResolver: checks technician availability and resolves the supervising coordinator by zone
//
// Domain services are stateless and never touch persistence; use cases load the
// aggregates, call a service and persist the result.
package services
