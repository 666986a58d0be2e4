// Package commands contains the lifecycle transitions of the field-service engine.
// Every command follows the same pattern: constructor-validated input, a per-order
// lock, one unit of work holding the order, appointment, execution, notification
// and audit writes, and a structured error on failure.
package commands

import (
	"fieldservice/internal/core/ports"
)

// UoWFactory creates the unit of work one transition runs in.
//
// Example:
//
//	uow := factory.Create()
//	err := uow.Begin(ctx)
//	defer uow.Rollback(ctx)
//
//	orders := uow.OrderRepository()
//	appointments := uow.AppointmentRepository()
//	// ... perform operations
//
//	err = uow.Commit(ctx)
type UoWFactory interface {
	Create() ports.UnitOfWork
}
