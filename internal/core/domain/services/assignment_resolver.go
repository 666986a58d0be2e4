package services

import (
	"time"

	"fieldservice/internal/core/domain/model/coordinator"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/model/technician"
)

// AssignmentResolver is a domain service that hands a validated order to the
// technician a coordinator picked and resolves the order's supervising coordinator.
//
// Business rules:
//   - The order must be Validated; any other state is a conflict
//   - The technician must be active at assignment time
//   - The supervising coordinator is the first active coordinator whose
//     responsibility zone equals the technician's coverage zone
//   - When no coordinator covers the zone the assignment still succeeds,
//     without a supervising coordinator
//   - The relation is computed once; later zone changes never backfill
//
// Example usage:
//
//	resolver := services.NewAssignmentResolver()
//	supervisor, err := resolver.Assign(o, tech, coordinators, clk.Now())
//	if errors.Is(err, errs.ErrTechnicianUnavailable) {
//	    // pick another technician
//	}
type AssignmentResolver struct{}

// NewAssignmentResolver creates a new AssignmentResolver instance.
func NewAssignmentResolver() AssignmentResolver {
	return AssignmentResolver{}
}

// Assign validates the inputs, resolves the supervising coordinator among
// candidates and assigns the order.
//
// Returns:
//   - *coordinator.Coordinator: the supervising coordinator, or nil when none covers the zone
//   - error: StateConflictError, TechnicianUnavailableError or a validation error
func (r AssignmentResolver) Assign(
	o *order.ServiceOrder,
	tech *technician.Technician,
	candidates []*coordinator.Coordinator,
	at time.Time,
) (*coordinator.Coordinator, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := tech.Validate(); err != nil {
		return nil, err
	}

	if _, err := o.Status().Assign(); err != nil {
		return nil, err
	}

	if err := tech.EnsureAvailable(); err != nil {
		return nil, err
	}

	supervisor, err := r.Supervisor(tech, candidates)
	if err != nil {
		return nil, err
	}

	var supervisorID = supervisorIDOf(supervisor)
	if err = o.Assign(tech.ID(), supervisorID, at); err != nil {
		return nil, err
	}

	return supervisor, nil
}

// Supervisor returns the first candidate supervising the technician's zone, or nil.
func (r AssignmentResolver) Supervisor(
	tech *technician.Technician,
	candidates []*coordinator.Coordinator,
) (*coordinator.Coordinator, error) {
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.Supervises(tech.Zone()) {
			return c, nil
		}
	}
	return nil, nil
}

func supervisorIDOf(c *coordinator.Coordinator) *kernel.UUID {
	if c == nil {
		return nil
	}
	id := c.ID()
	return &id
}
