package ports

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
)

// OrderLocker serializes transitions on one order across goroutines and, depending
// on the adapter, across service instances.
type OrderLocker interface {
	// Lock blocks until the order is held or ctx is done. The returned function
	// releases the lock and is safe to call once.
	Lock(ctx context.Context, orderID kernel.UUID) (unlock func(), err error)
}

// Clock supplies "now" in the fixed service timezone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}
