// Package technicianrepo persists technicians. A technician's id is its user id.
package technicianrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/technician"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TechnicianDTO represents the database structure for persisting technicians.
type TechnicianDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Zone   string    `gorm:"type:varchar(32);index;not null"`
	Active bool      `gorm:"not null"`
}

// TableName specifies the database table name for technicians.
func (TechnicianDTO) TableName() string {
	return "technicians"
}

func fromDomain(t *technician.Technician) TechnicianDTO {
	return TechnicianDTO{
		ID:     t.ID().Bytes(),
		Name:   t.Name(),
		Zone:   string(t.Zone()),
		Active: t.IsActive(),
	}
}

func toDomain(dto TechnicianDTO) (*technician.Technician, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	zone, err := kernel.ParseZone(dto.Zone)
	if err != nil {
		return nil, err
	}
	return technician.RestoreTechnician(id, dto.Name, zone, dto.Active)
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormTechnicianRepository implements TechnicianRepository using GORM.
type GormTechnicianRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormTechnicianRepository creates a new GORM technician repository.
func NewGormTechnicianRepository(db *gorm.DB, tracker aggregateTracker) *GormTechnicianRepository {
	return &GormTechnicianRepository{db: db, tracker: tracker}
}

func (r *GormTechnicianRepository) Add(ctx context.Context, aggregate *technician.Technician) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTechnicianRepository) Update(ctx context.Context, aggregate *technician.Technician) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TechnicianDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("technician", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTechnicianRepository) Get(ctx context.Context, id kernel.UUID) (*technician.Technician, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TechnicianDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("technician", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormTechnicianRepository) GetAll(ctx context.Context) ([]*technician.Technician, error) {
	var dtos []TechnicianDTO
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	technicians := make([]*technician.Technician, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		technicians = append(technicians, t)
	}
	return technicians, nil
}
