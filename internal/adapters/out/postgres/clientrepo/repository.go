// Package clientrepo reads and seeds client profiles.
package clientrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/client"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientDTO represents the database structure for client profiles.
type ClientDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Phone        string    `gorm:"type:varchar(32)"`
	Email        string    `gorm:"type:varchar(255)"`
	AccountState string    `gorm:"type:varchar(16);not null"`
}

// TableName specifies the database table name for clients.
func (ClientDTO) TableName() string {
	return "clients"
}

// GormClientRepository implements ClientRepository using GORM.
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GORM client repository.
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Add(ctx context.Context, aggregate *client.Client) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := ClientDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Phone:        aggregate.Phone(),
		Email:        aggregate.Email(),
		AccountState: string(aggregate.State()),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormClientRepository) Get(ctx context.Context, id kernel.UUID) (*client.Client, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ClientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("client", id.String())
		}
		return nil, err
	}

	state, err := client.ParseAccountState(dto.AccountState)
	if err != nil {
		return nil, err
	}
	return client.NewClient(id, dto.Name, dto.Phone, dto.Email, state)
}
