package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/kernel"
)

// AppointmentRepository defines the persistence contract for appointments.
// Appointments accumulate per order; the most recently created one is the active one.
type AppointmentRepository interface {
	Add(ctx context.Context, aggregate *appointment.Appointment) error

	Update(ctx context.Context, aggregate *appointment.Appointment) error

	// Get retrieves an appointment by id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error)

	// GetActiveByOrder retrieves the most recently created appointment of an order,
	// or ObjectNotFoundError when the order has none.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*appointment.Appointment, error)

	// ListByOrder returns every appointment of an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*appointment.Appointment, error)
}
