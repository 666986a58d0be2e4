// Package orderrepo provides data transfer objects and mapping functions for service
// order and execution persistence. Statuses are stored as their canonical text and
// legacy spellings are normalized when rows are read.
package orderrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting service orders.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	ClientID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	CreatedBy          *uuid.UUID `gorm:"type:uuid"`
	ServiceType        string     `gorm:"type:varchar(32);not null"`
	Description        string     `gorm:"type:text"`
	Address            string     `gorm:"type:text"`
	Status             string     `gorm:"type:varchar(32);index;not null"`
	TechnicianID       *uuid.UUID `gorm:"type:uuid;index"`
	CoordinatorID      *uuid.UUID `gorm:"type:uuid;index"`
	RequestedAt        time.Time  `gorm:"not null"`
	AssignedAt         *time.Time
	CompletedAt        *time.Time
	RejectionReason    string `gorm:"type:text"`
	CancellationReason string `gorm:"type:text"`
	Version            int    `gorm:"not null;default:0"`
}

// TableName specifies the database table name for service orders.
func (OrderDTO) TableName() string {
	return "service_orders"
}

// ExecutionDTO represents the execution record of an order. An order has at most one.
type ExecutionDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	TechnicianID uuid.UUID `gorm:"type:uuid;not null"`
	StartedAt    time.Time `gorm:"not null"`
	FinishedAt   *time.Time
	Summary      string `gorm:"type:text"`
	Result       string `gorm:"type:varchar(32)"`
	Confirmation string `gorm:"type:varchar(32)"`
}

// TableName specifies the database table name for executions.
func (ExecutionDTO) TableName() string {
	return "order_executions"
}

func fromDomain(o *order.ServiceOrder) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:                 s.ID.Bytes(),
		Number:             s.Number,
		ClientID:           s.ClientID.Bytes(),
		CreatedBy:          optionalBytes(s.CreatedBy),
		ServiceType:        string(s.ServiceType),
		Description:        s.Description,
		Address:            s.Address,
		Status:             s.Status.String(),
		TechnicianID:       optionalBytes(s.TechnicianID),
		CoordinatorID:      optionalBytes(s.CoordinatorID),
		RequestedAt:        s.RequestedAt,
		AssignedAt:         s.AssignedAt,
		CompletedAt:        s.CompletedAt,
		RejectionReason:    s.RejectionReason,
		CancellationReason: s.CancellationReason,
		Version:            s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.ServiceOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	serviceType, err := order.ParseServiceType(dto.ServiceType)
	if err != nil {
		return nil, err
	}
	createdBy, err := optionalUUID(dto.CreatedBy)
	if err != nil {
		return nil, err
	}
	technicianID, err := optionalUUID(dto.TechnicianID)
	if err != nil {
		return nil, err
	}
	coordinatorID, err := optionalUUID(dto.CoordinatorID)
	if err != nil {
		return nil, err
	}

	return order.RestoreServiceOrder(order.Snapshot{
		ID:                 id,
		Number:             dto.Number,
		ClientID:           clientID,
		CreatedBy:          createdBy,
		ServiceType:        serviceType,
		Description:        dto.Description,
		Address:            dto.Address,
		Status:             status,
		TechnicianID:       technicianID,
		CoordinatorID:      coordinatorID,
		RequestedAt:        dto.RequestedAt,
		AssignedAt:         dto.AssignedAt,
		CompletedAt:        dto.CompletedAt,
		RejectionReason:    dto.RejectionReason,
		CancellationReason: dto.CancellationReason,
		Version:            dto.Version,
	})
}

func executionFromDomain(e *order.Execution) ExecutionDTO {
	return ExecutionDTO{
		ID:           e.ID().Bytes(),
		OrderID:      e.OrderID().Bytes(),
		TechnicianID: e.TechnicianID().Bytes(),
		StartedAt:    e.StartedAt(),
		FinishedAt:   e.FinishedAt(),
		Summary:      e.Summary(),
		Result:       string(e.Result()),
		Confirmation: string(e.Confirmation()),
	}
}

func executionToDomain(dto ExecutionDTO) (*order.Execution, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	technicianID, err := kernel.UUIDFromBytes(dto.TechnicianID[:])
	if err != nil {
		return nil, err
	}
	confirmation, err := order.ParseClientConfirmation(dto.Confirmation)
	if err != nil {
		return nil, err
	}

	return order.RestoreExecution(id, orderID, technicianID, dto.StartedAt, dto.FinishedAt,
		dto.Summary, order.Result(dto.Result), confirmation)
}

func optionalBytes(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
