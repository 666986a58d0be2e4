// Package coordinator provides the Coordinator entity: staff responsible for one
// zone who assigns technicians and arbitrates reprogramming requests.
package coordinator

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var ErrCoordinatorIsNotConstructed = errors.New("Coordinator must be created via NewCoordinator constructor")

// Coordinator is identified by its user id and supervises technicians whose
// coverage zone equals its responsibility zone.
type Coordinator struct {
	id     kernel.UUID
	name   string
	zone   kernel.Zone
	active bool

	isConstructed bool
}

// NewCoordinator builds a coordinator. zone may be empty for coordinators
// without a responsibility zone; they still receive broadcast notifications.
func NewCoordinator(id kernel.UUID, name string, zone kernel.Zone, active bool) (*Coordinator, error) {
	c := &Coordinator{name: strings.TrimSpace(name), active: active, isConstructed: true}

	var zoneErr error
	if zone != "" {
		zoneErr = zone.Validate()
	}
	if err := errors.Join(id.Validate(), zoneErr); err != nil {
		return nil, err
	}
	if c.name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	c.id = id
	c.zone = zone
	return c, nil
}

func (c *Coordinator) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCoordinatorIsNotConstructed
	}
	return nil
}

func (c *Coordinator) ID() kernel.UUID {
	return c.id
}

func (c *Coordinator) Name() string {
	return c.name
}

// Zone returns the responsibility zone, or "" when the coordinator has none.
func (c *Coordinator) Zone() kernel.Zone {
	return c.zone
}

func (c *Coordinator) IsActive() bool {
	return c.active
}

// Supervises reports whether the coordinator is active and responsible for zone.
func (c *Coordinator) Supervises(zone kernel.Zone) bool {
	return c.active && c.zone != "" && c.zone == zone
}
