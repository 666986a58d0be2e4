package queries

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const OperationGetOrder = "get order"

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                 uuid.UUID
	Number             string
	ClientID           uuid.UUID
	ClientName         *string
	ServiceType        string
	Description        string
	Address            string
	Status             string
	TechnicianID       *uuid.UUID
	TechnicianName     *string
	CoordinatorID      *uuid.UUID
	RequestedAt        time.Time
	AssignedAt         *time.Time
	CompletedAt        *time.Time
	RejectionReason    string
	CancellationReason string
}

const orderColumns = `
		o.id,
		o.number,
		o.client_id,
		c.name AS client_name,
		o.service_type,
		o.description,
		o.address,
		o.status,
		o.technician_id,
		t.name AS technician_name,
		o.coordinator_id,
		o.requested_at,
		o.assigned_at,
		o.completed_at,
		o.rejection_reason,
		o.cancellation_reason
	FROM service_orders o
	LEFT JOIN clients c ON c.id = o.client_id
	LEFT JOIN technicians t ON t.id = o.technician_id`

// Handle returns ObjectNotFoundError for unknown orders and UnauthorizedError for
// orders the actor may not see.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).
		Raw(`SELECT `+orderColumns+` WHERE o.id = ?`, query.OrderID().Bytes()).
		Scan(&rows).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if len(rows) == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	view, err := rows[0].toView()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !canSee(query.Actor(), view) {
		return GetOrderQueryResponse{}, errs.NewUnauthorizedError(
			query.Actor().UserID().String(), OperationGetOrder, "order not visible to the actor")
	}

	response := GetOrderQueryResponse{Order: view}

	var executions []ExecutionView
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			started_at,
			finished_at,
			summary,
			result,
			confirmation
		FROM order_executions
		WHERE order_id = ?`, query.OrderID().Bytes()).
		Scan(&executions).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if len(executions) > 0 {
		response.Execution = &executions[0]
	}

	appointments, err := listAppointments(ctx, h.db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if active := activeAppointment(appointments); active != nil {
		response.ActiveAppointment = active
	}

	return response, nil
}

func (r orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}
	clientID, err := kernel.UUIDFromBytes(r.ClientID[:])
	if err != nil {
		return OrderView{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderView{}, err
	}
	technicianID, err := optionalID(r.TechnicianID)
	if err != nil {
		return OrderView{}, err
	}
	coordinatorID, err := optionalID(r.CoordinatorID)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:                 id,
		Number:             r.Number,
		ClientID:           clientID,
		ClientName:         deref(r.ClientName),
		ServiceType:        r.ServiceType,
		Description:        r.Description,
		Address:            r.Address,
		Status:             status.String(),
		TechnicianID:       technicianID,
		TechnicianName:     deref(r.TechnicianName),
		CoordinatorID:      coordinatorID,
		RequestedAt:        r.RequestedAt,
		AssignedAt:         r.AssignedAt,
		CompletedAt:        r.CompletedAt,
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
	}, nil
}

// canSee applies the read rules: clients see their orders, technicians the
// orders assigned to them, every other role sees all orders.
func canSee(actor kernel.Actor, view OrderView) bool {
	switch actor.Role() {
	case kernel.RoleClient:
		return view.ClientID.IsEqual(actor.UserID())
	case kernel.RoleTechnician:
		return view.TechnicianID != nil && view.TechnicianID.IsEqual(actor.UserID())
	default:
		return true
	}
}

func optionalID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
