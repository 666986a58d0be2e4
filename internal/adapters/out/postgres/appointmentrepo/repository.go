package appointmentrepo

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAppointmentRepository implements AppointmentRepository using GORM.
type GormAppointmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAppointmentRepository creates a new GORM appointment repository.
func NewGormAppointmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAppointmentRepository {
	return &GormAppointmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new appointment.
func (r *GormAppointmentRepository) Add(ctx context.Context, aggregate *appointment.Appointment) error {
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

// Update saves every column of an existing appointment.
func (r *GormAppointmentRepository) Update(ctx context.Context, aggregate *appointment.Appointment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AppointmentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("appointment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an appointment by ID.
func (r *GormAppointmentRepository) Get(ctx context.Context, id kernel.UUID) (*appointment.Appointment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AppointmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("appointment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOrder retrieves the most recently created appointment of an order.
func (r *GormAppointmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*appointment.Appointment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AppointmentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active appointment of order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByOrder returns every appointment of an order, oldest first.
func (r *GormAppointmentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*appointment.Appointment, error) {
	var dtos []AppointmentDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	appointments := make([]*appointment.Appointment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}

	return appointments, nil
}
