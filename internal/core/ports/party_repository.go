package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/client"
	"fieldservice/internal/core/domain/model/coordinator"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/technician"
)

// TechnicianRepository defines the persistence contract for technicians.
type TechnicianRepository interface {
	Add(ctx context.Context, aggregate *technician.Technician) error
	Update(ctx context.Context, aggregate *technician.Technician) error
	// Get retrieves a technician by its user id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*technician.Technician, error)
	// GetAll returns every technician ordered by name.
	GetAll(ctx context.Context) ([]*technician.Technician, error)
}

// CoordinatorRepository reads coordinator profiles maintained by user administration.
type CoordinatorRepository interface {
	Add(ctx context.Context, aggregate *coordinator.Coordinator) error
	// Get retrieves a coordinator by its user id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*coordinator.Coordinator, error)
	// ListActive returns every active coordinator ordered by name then id, so
	// zone resolution is deterministic.
	ListActive(ctx context.Context) ([]*coordinator.Coordinator, error)
}

// ClientRepository reads client profiles maintained by user administration.
type ClientRepository interface {
	Add(ctx context.Context, aggregate *client.Client) error
	// Get retrieves a client by its user id, or ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*client.Client, error)
}
