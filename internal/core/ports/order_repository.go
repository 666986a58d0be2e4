// Package ports defines the contracts between the field-service core and its
// infrastructure: repositories bound to a unit of work, the per-order lock and the
// service clock.
package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for service orders.
type OrderRepository interface {
	// Add persists a new order. The order number must be unique.
	Add(ctx context.Context, aggregate *order.ServiceOrder) error

	// Update persists the changes of an order loaded from this repository.
	// The write only succeeds when the stored version still equals the version the
	// order was loaded with; otherwise a StateConflictError is returned and nothing
	// is written. On success the aggregate carries the new version.
	Update(ctx context.Context, aggregate *order.ServiceOrder) error

	// Get retrieves an order by id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.ServiceOrder, error)

	// GetForUpdate retrieves an order and, on engines that support it, holds an
	// exclusive row lock on it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.ServiceOrder, error)
}

// ExecutionRepository stores the single execution record of an order.
type ExecutionRepository interface {
	// Add persists a new execution. A second execution for the same order is refused.
	Add(ctx context.Context, execution *order.Execution) error

	// Update persists the end timestamp, summary, result and client confirmation.
	Update(ctx context.Context, execution *order.Execution) error

	// GetByOrder retrieves the execution of an order, or ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*order.Execution, error)

	// CountByOrder returns how many execution records exist for an order.
	CountByOrder(ctx context.Context, orderID kernel.UUID) (int64, error)
}
