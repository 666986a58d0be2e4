// Package coordinatorrepo reads and seeds coordinator profiles.
package coordinatorrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/coordinator"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoordinatorDTO represents the database structure for coordinator profiles.
// Zone is empty for coordinators without a responsibility zone.
type CoordinatorDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Zone   string    `gorm:"type:varchar(32);index"`
	Active bool      `gorm:"not null;index"`
}

// TableName specifies the database table name for coordinators.
func (CoordinatorDTO) TableName() string {
	return "coordinators"
}

func fromDomain(c *coordinator.Coordinator) CoordinatorDTO {
	return CoordinatorDTO{
		ID:     c.ID().Bytes(),
		Name:   c.Name(),
		Zone:   string(c.Zone()),
		Active: c.IsActive(),
	}
}

func toDomain(dto CoordinatorDTO) (*coordinator.Coordinator, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	var zone kernel.Zone
	if dto.Zone != "" {
		if zone, err = kernel.ParseZone(dto.Zone); err != nil {
			return nil, err
		}
	}
	return coordinator.NewCoordinator(id, dto.Name, zone, dto.Active)
}

// GormCoordinatorRepository implements CoordinatorRepository using GORM.
type GormCoordinatorRepository struct {
	db *gorm.DB
}

// NewGormCoordinatorRepository creates a new GORM coordinator repository.
func NewGormCoordinatorRepository(db *gorm.DB) *GormCoordinatorRepository {
	return &GormCoordinatorRepository{db: db}
}

func (r *GormCoordinatorRepository) Add(ctx context.Context, aggregate *coordinator.Coordinator) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormCoordinatorRepository) Get(ctx context.Context, id kernel.UUID) (*coordinator.Coordinator, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CoordinatorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coordinator", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormCoordinatorRepository) ListActive(ctx context.Context) ([]*coordinator.Coordinator, error) {
	var dtos []CoordinatorDTO
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Order("id ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	coordinators := make([]*coordinator.Coordinator, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		coordinators = append(coordinators, c)
	}
	return coordinators, nil
}
