package commands

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

var ErrAssignTechnicianCommandIsNotConstructed = errors.New(
	"AssignTechnicianCommand must be created via NewAssignTechnicianCommand constructor",
)

// AssignTechnicianCommand hands a Validated order to a technician and proposes
// the first visit at scheduledAt.
//
// Example:
//
//	visit, _ := clk.Combine(date, "09:30")
//	cmd, err := NewAssignTechnicianCommand(actor, orderID, technicianID, visit)
type AssignTechnicianCommand struct { //nolint:recvcheck //using for validation
	actor        kernel.Actor
	orderID      kernel.UUID
	technicianID kernel.UUID
	scheduledAt  time.Time

	guard guard.ConstructorGuard
}

func NewAssignTechnicianCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	technicianID kernel.UUID,
	scheduledAt time.Time,
) (AssignTechnicianCommand, error) {
	var scheduleErr error
	if scheduledAt.IsZero() {
		scheduleErr = errs.NewValueIsRequiredError("scheduled at")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), technicianID.Validate(), scheduleErr); err != nil {
		return AssignTechnicianCommand{}, err
	}
	return AssignTechnicianCommand{
		actor:        actor,
		orderID:      orderID,
		technicianID: technicianID,
		scheduledAt:  scheduledAt,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AssignTechnicianCommand) Validate() error {
	return c.guard.Validate(ErrAssignTechnicianCommandIsNotConstructed)
}

func (c AssignTechnicianCommand) Actor() kernel.Actor {
	return c.actor
}

func (c AssignTechnicianCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignTechnicianCommand) TechnicianID() kernel.UUID {
	return c.technicianID
}

func (c AssignTechnicianCommand) ScheduledAt() time.Time {
	return c.scheduledAt
}
