package kernel

import (
	"errors"
	"fmt"
	"strings"

	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

// Role is the authenticated user's role as supplied by the identity collaborator.
type Role string

const (
	RoleClient      Role = "cliente"
	RoleAgent       Role = "agente"
	RoleCoordinator Role = "coordinador"
	RoleTechnician  Role = "tecnico"
	RoleAdmin       Role = "admin"
)

// ErrActorIsNotConstructed is returned for a zero-value Actor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// ParseRole maps the identity provider's role text (any casing, accents optional) to a Role.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cliente", "client":
		return RoleClient, nil
	case "agente", "agent":
		return RoleAgent, nil
	case "coordinador", "coordinator":
		return RoleCoordinator, nil
	case "tecnico", "técnico", "technician":
		return RoleTechnician, nil
	case "admin", "administrador":
		return RoleAdmin, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", raw))
	}
}

// Actor is the authenticated caller of a transition. It is passed explicitly into
// every command; the engine never reads ambient session state.
type Actor struct {
	userID UUID
	role   Role
	guard  guard.ConstructorGuard
}

// NewActor builds an Actor from the identity collaborator's user id and role.
func NewActor(userID UUID, role Role) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the actor was built by NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) UserID() UUID {
	return a.userID
}

func (a Actor) Role() Role {
	return a.role
}

// HasRole reports whether the actor holds any of roles. Admins hold every role.
func (a Actor) HasRole(roles ...Role) bool {
	if a.role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if a.role == r {
			return true
		}
	}
	return false
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID UUID) bool {
	return a.userID.IsEqual(userID)
}
