package queries

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the orders visible to the actor, newest first,
// optionally restricted to one status.
type ListOrdersQuery struct {
	actor  kernel.Actor
	status *order.Status

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor kernel.Actor, status *order.Status) (ListOrdersQuery, error) {
	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if err := errors.Join(actor.Validate(), statusErr); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() kernel.Actor {
	return q.actor
}

func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}
