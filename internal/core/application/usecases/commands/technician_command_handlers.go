package commands

import (
	"context"
	"fmt"
	"strings"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/technician"
)

const (
	OperationCreateTechnician = "create technician"
	OperationUpdateTechnician = "update technician"
)

type CreateTechnicianCommandHandler struct {
	engine *Engine
}

func NewCreateTechnicianCommandHandler(engine *Engine) CreateTechnicianCommandHandler {
	return CreateTechnicianCommandHandler{engine: engine}
}

// Handle adds an active technician covering the given zone.
func (h CreateTechnicianCommandHandler) Handle(ctx context.Context, command CreateTechnicianCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	_, err := h.engine.Run(ctx, OperationCreateTechnician, command.Actor(), nil, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), OperationCreateTechnician, kernel.RoleCoordinator); err != nil {
			return err
		}

		tech, err := technician.NewTechnician(command.TechnicianID(), command.Name(), command.Zone())
		if err != nil {
			return err
		}
		if err = tx.Technicians().Add(tx.Context(), tech); err != nil {
			return err
		}

		tx.Audit(nil, audit.ActionCreateTechnician,
			fmt.Sprintf("Técnico %s registrado en %s", tech.Name(), tech.Zone()))
		return nil
	})
	return err
}

type UpdateTechnicianCommandHandler struct {
	engine *Engine
}

func NewUpdateTechnicianCommandHandler(engine *Engine) UpdateTechnicianCommandHandler {
	return UpdateTechnicianCommandHandler{engine: engine}
}

// Handle relocates the technician or toggles availability. Orders assigned
// before the change keep their supervising coordinator.
func (h UpdateTechnicianCommandHandler) Handle(ctx context.Context, command UpdateTechnicianCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	_, err := h.engine.Run(ctx, OperationUpdateTechnician, command.Actor(), nil, func(tx *Tx) error {
		if err := requireRole(tx.Actor(), OperationUpdateTechnician, kernel.RoleCoordinator); err != nil {
			return err
		}

		tech, err := tx.Technicians().Get(tx.Context(), command.TechnicianID())
		if err != nil {
			return err
		}

		var changes []string
		if zone := command.Zone(); zone != nil {
			if err = tech.Relocate(*zone); err != nil {
				return err
			}
			changes = append(changes, "zona "+tech.Zone().String())
		}
		if active := command.Active(); active != nil {
			tech.SetAvailability(*active)
			changes = append(changes, fmt.Sprintf("disponible=%t", tech.IsActive()))
		}
		if err = tx.Technicians().Update(tx.Context(), tech); err != nil {
			return err
		}

		tx.Audit(nil, audit.ActionUpdateTechnician,
			fmt.Sprintf("Técnico %s actualizado: %s", tech.Name(), strings.Join(changes, ", ")))
		return nil
	})
	return err
}
