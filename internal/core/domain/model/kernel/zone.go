package kernel

import (
	"fmt"
	"strings"

	"fieldservice/internal/pkg/errs"
)

// Zone is one of the fixed geographic coverage areas. Technicians cover exactly one
// zone and each coordinator is responsible for one.
type Zone string

const (
	ZoneNorth  Zone = "Zona Norte"
	ZoneSouth  Zone = "Zona Sur"
	ZoneCenter Zone = "Zona Centro"
	ZoneEast   Zone = "Zona Este"
	ZoneWest   Zone = "Zona Oeste"
)

// Zones returns the fixed zone set in display order.
func Zones() []Zone {
	return []Zone{ZoneNorth, ZoneSouth, ZoneCenter, ZoneEast, ZoneWest}
}

// ParseZone accepts any casing and surrounding whitespace, with or without the
// "Zona" prefix ("norte", "ZONA NORTE" and "Zona Norte" are the same zone).
func ParseZone(raw string) (Zone, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	normalized = strings.TrimPrefix(normalized, "zona ")
	for _, z := range Zones() {
		if strings.TrimPrefix(strings.ToLower(string(z)), "zona ") == normalized {
			return z, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%q is not a known zone", raw))
}

// Validate reports whether z belongs to the fixed zone set.
func (z Zone) Validate() error {
	for _, known := range Zones() {
		if z == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%q is not a known zone", string(z)))
}

func (z Zone) String() string {
	return string(z)
}
