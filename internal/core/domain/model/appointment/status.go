package appointment

import (
	"fmt"
	"strings"

	"fieldservice/internal/pkg/errs"
)

// Status is the negotiation state of an appointment.
//
//	Proposed ──> Confirmed ──> Completed
//	   │  ▲
//	   ▼  │ (coordinator re-proposes)
//	Reprogrammed
//
// Any non-terminal appointment may be Cancelled together with its order.
type Status int

const (
	Unknown Status = iota
	Proposed
	Confirmed
	Reprogrammed
	Cancelled
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "Unknown",
		Proposed:     "Propuesta",
		Confirmed:    "Confirmada",
		Reprogrammed: "Reprogramada",
		Cancelled:    "Cancelada",
		Completed:    "Completada",
	}
}

// statusSynonyms lists every spelling the stored data is known to contain.
func statusSynonyms() map[string]Status {
	return map[string]Status{
		"propuesta":                   Proposed,
		"pendiente":                   Proposed,
		"pendiente de confirmacion":   Proposed,
		"programada":                  Proposed,
		"confirmada":                  Confirmed,
		"aceptada":                    Confirmed,
		"reprogramada":                Reprogrammed,
		"solic reprogram":             Reprogrammed,
		"solicitud de reprogramacion": Reprogrammed,
		"reprogramacion solicitada":   Reprogrammed,
		"cancelada":                   Cancelled,
		"completada":                  Completed,
		"finalizada":                  Completed,
	}
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	"_", " ", "-", " ", ".", " ",
)

// ParseStatus maps any stored spelling to the canonical status.
func ParseStatus(raw string) (Status, error) {
	key := strings.Join(strings.Fields(accentReplacer.Replace(strings.ToLower(raw))), " ")
	if s, ok := statusSynonyms()[key]; ok {
		return s, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("appointment status", fmt.Errorf("%q is not a known status", raw))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("appointment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the negotiation is over.
func (s Status) IsTerminal() bool {
	return s == Cancelled || s == Completed
}
