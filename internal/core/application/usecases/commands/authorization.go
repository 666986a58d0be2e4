package commands

import (
	"fmt"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"
)

func requireRole(actor kernel.Actor, operation string, roles ...kernel.Role) error {
	if actor.HasRole(roles...) {
		return nil
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return errs.NewUnauthorizedError(actor.UserID().String(), operation,
		fmt.Sprintf("requires role %s", strings.Join(names, " or ")))
}

func requireOrderClient(actor kernel.Actor, o *order.ServiceOrder, operation string) error {
	if actor.Role() != kernel.RoleClient || !o.IsOwnedBy(actor.UserID()) {
		return errs.NewUnauthorizedError(actor.UserID().String(), operation, "not the order's client")
	}
	return nil
}

func requireAssignedTechnician(actor kernel.Actor, o *order.ServiceOrder, operation string) error {
	if actor.Role() != kernel.RoleTechnician || !o.IsAssignedTo(actor.UserID()) {
		return errs.NewUnauthorizedError(actor.UserID().String(), operation, "not the order's assigned technician")
	}
	return nil
}
