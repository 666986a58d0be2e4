package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

var (
	ErrCreateTechnicianCommandIsNotConstructed = errors.New(
		"CreateTechnicianCommand must be created via NewCreateTechnicianCommand constructor",
	)
	ErrUpdateTechnicianCommandIsNotConstructed = errors.New(
		"UpdateTechnicianCommand must be created via NewUpdateTechnicianCommand constructor",
	)
)

// CreateTechnicianCommand registers the technician profile of an existing user.
// The technician id is the user id given by the identity collaborator.
type CreateTechnicianCommand struct { //nolint:recvcheck //using for validation
	actor        kernel.Actor
	technicianID kernel.UUID
	name         string
	zone         kernel.Zone

	guard guard.ConstructorGuard
}

func NewCreateTechnicianCommand(
	actor kernel.Actor,
	technicianID kernel.UUID,
	name string,
	zone kernel.Zone,
) (CreateTechnicianCommand, error) {
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(actor.Validate(), technicianID.Validate(), nameErr, zone.Validate()); err != nil {
		return CreateTechnicianCommand{}, err
	}
	return CreateTechnicianCommand{
		actor:        actor,
		technicianID: technicianID,
		name:         name,
		zone:         zone,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateTechnicianCommand) Validate() error {
	return c.guard.Validate(ErrCreateTechnicianCommandIsNotConstructed)
}

func (c CreateTechnicianCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateTechnicianCommand) TechnicianID() kernel.UUID {
	return c.technicianID
}

func (c CreateTechnicianCommand) Name() string {
	return c.name
}

func (c CreateTechnicianCommand) Zone() kernel.Zone {
	return c.zone
}

// UpdateTechnicianCommand changes a technician's zone, availability, or both.
// A nil field is left as is.
type UpdateTechnicianCommand struct { //nolint:recvcheck //using for validation
	actor        kernel.Actor
	technicianID kernel.UUID
	zone         *kernel.Zone
	active       *bool

	guard guard.ConstructorGuard
}

func NewUpdateTechnicianCommand(
	actor kernel.Actor,
	technicianID kernel.UUID,
	zone *kernel.Zone,
	active *bool,
) (UpdateTechnicianCommand, error) {
	var zoneErr, emptyErr error
	if zone != nil {
		zoneErr = zone.Validate()
	}
	if zone == nil && active == nil {
		emptyErr = errs.NewValueIsRequiredError("zone or active")
	}
	if err := errors.Join(actor.Validate(), technicianID.Validate(), zoneErr, emptyErr); err != nil {
		return UpdateTechnicianCommand{}, err
	}
	return UpdateTechnicianCommand{
		actor:        actor,
		technicianID: technicianID,
		zone:         zone,
		active:       active,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateTechnicianCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTechnicianCommandIsNotConstructed)
}

func (c UpdateTechnicianCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateTechnicianCommand) TechnicianID() kernel.UUID {
	return c.technicianID
}

func (c UpdateTechnicianCommand) Zone() *kernel.Zone {
	return c.zone
}

func (c UpdateTechnicianCommand) Active() *bool {
	return c.active
}
