package order

import (
	"fmt"
	"strings"

	"fieldservice/internal/pkg/errs"
)

// Status represents the lifecycle state of a service order.
//
// State transitions:
//
//	Created ──> Validated ──> Assigned ──> InProgress ──> Completed
//	   │            │             │            ▲              │
//	   │            │             │            └──────────────┘
//	   │            │             │         (client rejects the service)
//	   └────────────┴─────────────┴──> Cancelled
//
// Completed and Cancelled are terminal. A Completed order only leaves its
// state when the client rejects the executed service, which sends it back to
// InProgress for coordinator review.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the initial status; the order waits for an agent to validate it.
	Created

	// Validated orders wait for a coordinator to assign a technician.
	Validated

	// Assigned orders have a technician and a proposed appointment.
	Assigned

	// InProgress means the technician started the work.
	InProgress

	// Completed means the technician finished the work.
	Completed

	// Cancelled orders were rejected by an agent or cancelled by staff.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Created:    "Creada",
		Validated:  "Validada",
		Assigned:   "Asignada",
		InProgress: "En Proceso",
		Completed:  "Completada",
		Cancelled:  "Cancelada",
	}
}

// statusSynonyms maps every spelling found in stored data to its canonical status.
// Keys are lower-cased with accents removed.
func statusSynonyms() map[string]Status {
	return map[string]Status{
		"creada":     Created,
		"pendiente":  Created,
		"nueva":      Created,
		"validada":   Validated,
		"aprobada":   Validated,
		"asignada":   Assigned,
		"en proceso": InProgress,
		"en curso":   InProgress,
		"completada": Completed,
		"finalizada": Completed,
		"cancelada":  Cancelled,
		"rechazada":  Cancelled,
	}
}

// ParseStatus normalizes a stored or transported status value. Casing,
// surrounding blanks, underscores and accents are ignored.
func ParseStatus(raw string) (Status, error) {
	key := normalizeText(raw)
	if s, ok := statusSynonyms()[key]; ok {
		return s, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%q is not a known status", raw))
}

// Validate checks that s is one of the defined statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical Spanish label used for persistence and display.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no forward transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// RequiresTechnician reports whether an order in s must carry an assigned technician.
func (s Status) RequiresTechnician() bool {
	return s == Assigned || s == InProgress || s == Completed
}

// ValidateCanHaveTechnician checks the consistency between the status and the
// presence of an assigned technician.
//
// Business Rules:
//   - Assigned, InProgress and Completed orders must have a technician
//   - Every other status must not have one
func (s Status) ValidateCanHaveTechnician(hasTechnician bool) error {
	if hasTechnician != s.RequiresTechnician() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order status",
			fmt.Errorf("%s is not a valid status with technician=%t", s, hasTechnician),
		)
	}
	return nil
}

// Approve transitions Created -> Validated.
func (s Status) Approve() (Status, error) {
	return s.transition(OperationValidate, Validated, Created)
}

// Reject transitions Created -> Cancelled.
func (s Status) Reject() (Status, error) {
	return s.transition(OperationReject, Cancelled, Created)
}

// Assign transitions Validated -> Assigned. Reassigning an Assigned order is a conflict.
func (s Status) Assign() (Status, error) {
	return s.transition(OperationAssign, Assigned, Validated)
}

// Start transitions Assigned -> InProgress.
func (s Status) Start() (Status, error) {
	return s.transition(OperationStartWork, InProgress, Assigned)
}

// Finish transitions InProgress -> Completed.
func (s Status) Finish() (Status, error) {
	return s.transition(OperationFinishWork, Completed, InProgress)
}

// Reopen transitions Completed -> InProgress after the client rejected the service.
func (s Status) Reopen() (Status, error) {
	return s.transition(OperationRejectService, InProgress, Completed)
}

// Cancel transitions any non-terminal status to Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.transition(OperationCancel, Cancelled, Created, Validated, Assigned, InProgress)
}

func (s Status) transition(operation string, target Status, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return target, nil
		}
	}
	return Unknown, errs.NewStateConflictError("order", s.String(), operation)
}

// Operation names used in state conflicts and audit trails.
const (
	OperationValidate       = "validate"
	OperationReject         = "reject"
	OperationAssign         = "assign"
	OperationStartWork      = "start work"
	OperationFinishWork     = "finish work"
	OperationConfirmService = "confirm service"
	OperationRejectService  = "reject service"
	OperationCancel         = "cancel"
)

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"_", " ", "-", " ",
)

func normalizeText(raw string) string {
	lowered := accentReplacer.Replace(strings.ToLower(raw))
	return strings.Join(strings.Fields(lowered), " ")
}
