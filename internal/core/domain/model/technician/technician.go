package technician

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

var (
	// ErrTechnicianIsNotConstructed is returned when a Technician was not created
	// through NewTechnician or RestoreTechnician.
	ErrTechnicianIsNotConstructed = errors.New("Technician must be created via NewTechnician constructor")
)

// Technician is a field worker that executes service orders in one coverage zone.
// Its id is the technician's user id, so it doubles as the notification recipient.
//
// Technician follows these invariants:
//   - Must have a valid identifier and a non-empty name
//   - Covers exactly one zone of the fixed zone set
//   - Can only receive new assignments while active
type Technician struct {
	id     kernel.UUID
	name   string
	zone   kernel.Zone
	active bool

	isConstructed bool
}

// NewTechnician creates an active technician covering zone.
//
// Example:
//
//	tech, err := technician.NewTechnician(userID, "Laura Gómez", kernel.ZoneNorth)
//	if err != nil {
//	    return err
//	}
func NewTechnician(id kernel.UUID, name string, zone kernel.Zone) (*Technician, error) {
	return RestoreTechnician(id, name, zone, true)
}

// RestoreTechnician rebuilds a technician from persistence.
func RestoreTechnician(id kernel.UUID, name string, zone kernel.Zone, active bool) (*Technician, error) {
	t := &Technician{active: active, isConstructed: true}

	if err := errors.Join(
		t.setID(id),
		t.setName(name),
		t.setZone(zone),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate ensures the technician was built by a constructor.
func (t *Technician) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTechnicianIsNotConstructed
	}
	return nil
}

func (t *Technician) ID() kernel.UUID {
	return t.id
}

func (t *Technician) Name() string {
	return t.name
}

// Zone returns the coverage zone.
func (t *Technician) Zone() kernel.Zone {
	return t.zone
}

// IsActive reports the availability flag.
func (t *Technician) IsActive() bool {
	return t.active
}

// EnsureAvailable returns TechnicianUnavailableError when the technician cannot
// take a new assignment.
func (t *Technician) EnsureAvailable() error {
	if !t.active {
		return errs.NewTechnicianUnavailableError(t.id.String())
	}
	return nil
}

// Relocate moves the technician to another coverage zone. Orders already
// assigned keep the supervising coordinator they were given.
func (t *Technician) Relocate(zone kernel.Zone) error {
	return t.setZone(zone)
}

// SetAvailability toggles the availability flag.
func (t *Technician) SetAvailability(active bool) {
	t.active = active
}

func (t *Technician) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Technician) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	t.name = name
	return nil
}

func (t *Technician) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	t.zone = zone
	return nil
}
