package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order with its execution and active appointment.
// Clients only see their own orders and technicians the ones assigned to them.
type GetOrderQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderView is the order read model.
type OrderView struct {
	ID                 kernel.UUID
	Number             string
	ClientID           kernel.UUID
	ClientName         string
	ServiceType        string
	Description        string
	Address            string
	Status             string
	TechnicianID       *kernel.UUID
	TechnicianName     string
	CoordinatorID      *kernel.UUID
	RequestedAt        time.Time
	AssignedAt         *time.Time
	CompletedAt        *time.Time
	RejectionReason    string
	CancellationReason string
}

// ExecutionView is the execution read model.
type ExecutionView struct {
	StartedAt    time.Time
	FinishedAt   *time.Time
	Summary      string
	Result       string
	Confirmation string
}

// GetOrderQueryResponse carries the order, its execution when work started and
// its active appointment when one exists.
type GetOrderQueryResponse struct {
	Order             OrderView
	Execution         *ExecutionView
	ActiveAppointment *AppointmentView
}
