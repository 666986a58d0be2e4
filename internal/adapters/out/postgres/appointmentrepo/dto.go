// Package appointmentrepo persists appointments. The status column may hold legacy
// spellings; they are normalized on read and always written canonically.
package appointmentrepo

import (
	"time"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AppointmentDTO represents the database structure for persisting appointments.
type AppointmentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;index;not null"`
	ScheduledAt     time.Time `gorm:"not null"`
	Status          string    `gorm:"type:varchar(48);not null"`
	ReprogramReason string    `gorm:"type:text"`
	ConfirmedAt     *time.Time
	CreatedAt       time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for appointments.
func (AppointmentDTO) TableName() string {
	return "appointments"
}

func fromDomain(a *appointment.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:              a.ID().Bytes(),
		OrderID:         a.OrderID().Bytes(),
		ScheduledAt:     a.ScheduledAt(),
		Status:          a.Status().String(),
		ReprogramReason: a.ReprogramReason(),
		ConfirmedAt:     a.ConfirmedAt(),
		CreatedAt:       a.CreatedAt(),
	}
}

func toDomain(dto AppointmentDTO) (*appointment.Appointment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := appointment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return appointment.RestoreAppointment(id, orderID, dto.ScheduledAt, status,
		dto.ReprogramReason, dto.ConfirmedAt, dto.CreatedAt)
}
