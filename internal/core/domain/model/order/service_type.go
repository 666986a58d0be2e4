package order

import (
	"fmt"

	"fieldservice/internal/pkg/errs"
)

// ServiceType is the kind of work a client requests.
type ServiceType string

const (
	ServiceInstallation ServiceType = "Instalación"
	ServiceRepair       ServiceType = "Reparación"
	ServiceRemoval      ServiceType = "Retiro"
)

// ParseServiceType accepts the canonical label with or without accents and in any casing.
func ParseServiceType(raw string) (ServiceType, error) {
	switch normalizeText(raw) {
	case "instalacion", "installation":
		return ServiceInstallation, nil
	case "reparacion", "repair":
		return ServiceRepair, nil
	case "retiro", "removal":
		return ServiceRemoval, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("service type", fmt.Errorf("%q is not a known service type", raw))
	}
}

func (t ServiceType) Validate() error {
	switch t {
	case ServiceInstallation, ServiceRepair, ServiceRemoval:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("service type", fmt.Errorf("%q is not a known service type", string(t)))
	}
}

func (t ServiceType) String() string {
	return string(t)
}
