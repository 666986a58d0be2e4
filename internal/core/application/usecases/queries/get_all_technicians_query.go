// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read straight from the database and never take the per-order lock.
package queries

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var (
	ErrGetAllTechniciansQueryIsNotConstructed = errors.New(
		"GetAllTechniciansQuery must be created via NewGetAllTechniciansQuery constructor",
	)
)

// GetAllTechniciansQuery lists every technician with zone and availability, so a
// coordinator can pick who to assign.
//
// Example:
//
//	query := NewGetAllTechniciansQuery(false)
//	handler := NewGetAllTechniciansQueryHandler(db)
//
//	technicians, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve technicians: %w", err)
//	}
type GetAllTechniciansQuery struct {
	onlyAvailable bool

	guard guard.ConstructorGuard
}

// NewGetAllTechniciansQuery creates the query. onlyAvailable drops inactive technicians.
func NewGetAllTechniciansQuery(onlyAvailable bool) GetAllTechniciansQuery {
	return GetAllTechniciansQuery{onlyAvailable: onlyAvailable, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllTechniciansQuery) Validate() error {
	return q.guard.Validate(ErrGetAllTechniciansQueryIsNotConstructed)
}

func (q GetAllTechniciansQuery) OnlyAvailable() bool {
	return q.onlyAvailable
}

// GetAllTechniciansQueryResponse is the technician read model.
type GetAllTechniciansQueryResponse struct {
	ID     kernel.UUID
	Name   string
	Zone   kernel.Zone
	Active bool
}
