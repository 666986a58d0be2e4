package queries

import (
	"context"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetOrderAppointmentsQueryIsNotConstructed = errors.New(
	"GetOrderAppointmentsQuery must be created via NewGetOrderAppointmentsQuery constructor",
)

// GetOrderAppointmentsQuery lists the appointment history of an order, oldest first.
type GetOrderAppointmentsQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderAppointmentsQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderAppointmentsQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderAppointmentsQuery{}, err
	}
	return GetOrderAppointmentsQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderAppointmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAppointmentsQueryIsNotConstructed)
}

// AppointmentView is the appointment read model.
type AppointmentView struct {
	ID              kernel.UUID
	ScheduledAt     time.Time
	Status          string
	ReprogramReason string
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
}

type GetOrderAppointmentsQueryHandler struct {
	db     *gorm.DB
	orders GetOrderQueryHandler
}

func NewGetOrderAppointmentsQueryHandler(db *gorm.DB) GetOrderAppointmentsQueryHandler {
	return GetOrderAppointmentsQueryHandler{db: db, orders: NewGetOrderQueryHandler(db)}
}

// Handle applies the same visibility rules as GetOrderQuery.
func (h GetOrderAppointmentsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAppointmentsQuery,
) ([]AppointmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderQuery, err := NewGetOrderQuery(query.actor, query.orderID)
	if err != nil {
		return nil, err
	}
	if _, err = h.orders.Handle(ctx, orderQuery); err != nil {
		return nil, err
	}
	return listAppointments(ctx, h.db, query.orderID)
}

type appointmentRow struct {
	ID              uuid.UUID
	ScheduledAt     time.Time
	Status          string
	ReprogramReason string
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
}

func listAppointments(ctx context.Context, db *gorm.DB, orderID kernel.UUID) ([]AppointmentView, error) {
	var rows []appointmentRow
	err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			scheduled_at,
			status,
			reprogram_reason,
			confirmed_at,
			created_at
		FROM appointments
		WHERE order_id = ?
		ORDER BY created_at, id`, orderID.Bytes()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]AppointmentView, 0, len(rows))
	for _, r := range rows {
		id, err := kernel.UUIDFromBytes(r.ID[:])
		if err != nil {
			return nil, err
		}
		status, err := appointment.ParseStatus(r.Status)
		if err != nil {
			return nil, err
		}
		views = append(views, AppointmentView{
			ID:              id,
			ScheduledAt:     r.ScheduledAt,
			Status:          status.String(),
			ReprogramReason: r.ReprogramReason,
			ConfirmedAt:     r.ConfirmedAt,
			CreatedAt:       r.CreatedAt,
		})
	}
	return views, nil
}

// activeAppointment is the most recently created appointment, or nil.
func activeAppointment(views []AppointmentView) *AppointmentView {
	if len(views) == 0 {
		return nil
	}
	last := views[len(views)-1]
	return &last
}
