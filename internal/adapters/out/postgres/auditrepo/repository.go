// Package auditrepo appends audit records. Like notifications, each insert is a
// nested transaction so a failed record never poisons the transition's transaction.
package auditrepo

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordDTO represents the database structure for audit records.
type RecordDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ActorID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Action      string     `gorm:"type:varchar(64);not null"`
	Description string     `gorm:"type:text"`
	RecordedAt  time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for audit records.
func (RecordDTO) TableName() string {
	return "audit_records"
}

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Add appends one record inside a nested transaction.
func (r *GormAuditRepository) Add(ctx context.Context, record *audit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var orderID *uuid.UUID
	if id := record.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}
	dto := RecordDTO{
		ID:          record.ID().Bytes(),
		ActorID:     record.ActorID().Bytes(),
		OrderID:     orderID,
		Action:      string(record.Action()),
		Description: record.Description(),
		RecordedAt:  record.At(),
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
}

// ListByOrder returns the order's audit trail, oldest first.
func (r *GormAuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Record, error) {
	var dtos []RecordDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("recorded_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*audit.Record, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
		if err != nil {
			return nil, err
		}
		recordOrderID := orderID
		rec, err := audit.NewRecord(id, actorID, &recordOrderID, audit.Action(dto.Action), dto.Description, dto.RecordedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
