package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) requestReprogram(appointmentID kernel.UUID, newAt time.Time, reason string) error {
	f.t.Helper()
	cmd, err := commands.NewRequestReprogramCommand(f.client, appointmentID, newAt, reason)
	require.NoError(f.t, err)
	_, err = commands.NewRequestReprogramCommandHandler(f.engine).Handle(context.Background(), cmd)
	return err
}

func (f *fixture) repropose(appointmentID kernel.UUID, at time.Time) error {
	f.t.Helper()
	cmd, err := commands.NewReproposeAppointmentCommand(f.northCoordinator, appointmentID, at)
	require.NoError(f.t, err)
	_, err = commands.NewReproposeAppointmentCommandHandler(f.engine).Handle(context.Background(), cmd)
	return err
}

func (f *fixture) confirmAppointment(actor kernel.Actor, appointmentID kernel.UUID) error {
	f.t.Helper()
	cmd, err := commands.NewConfirmAppointmentCommand(actor, appointmentID)
	require.NoError(f.t, err)
	_, err = commands.NewConfirmAppointmentCommandHandler(f.engine).Handle(context.Background(), cmd)
	return err
}

func TestAppointmentNegotiation(t *testing.T) {
	t.Run("should notify only the supervising coordinator of a reprogram request", func(t *testing.T) {
		f := newFixture(t)
		orderID, appointmentID := f.assignedOrder(f.northTechnician)

		err := f.requestReprogram(appointmentID, f.tomorrowAt(15), "Estaré en el trabajo en la mañana")

		require.NoError(t, err)
		a := f.appointment(appointmentID)
		assert.Equal(t, appointment.Reprogrammed, a.Status())
		assert.True(t, a.ScheduledAt().Equal(f.tomorrowAt(15)))
		assert.Equal(t, "Estaré en el trabajo en la mañana", a.ReprogramReason())
		assert.Len(t, f.inboxOf(f.northCoordinator, orderID, notification.TypeReprogramRequested), 1)
		assert.Empty(t, f.inboxOf(f.southCoordinator, orderID, notification.TypeReprogramRequested))
		assert.Contains(t, f.actions(orderID), audit.ActionRequestReprogram)
	})

	t.Run("should go round trip from proposal to confirmation", func(t *testing.T) {
		f := newFixture(t)
		orderID, appointmentID := f.assignedOrder(f.northTechnician)

		require.NoError(t, f.requestReprogram(appointmentID, f.tomorrowAt(15), "Salgo tarde del trabajo"))
		require.NoError(t, f.repropose(appointmentID, time.Time{}))

		a := f.appointment(appointmentID)
		assert.Equal(t, appointment.Proposed, a.Status())
		assert.True(t, a.ScheduledAt().Equal(f.tomorrowAt(15)))
		assert.Len(t, f.inboxOf(f.client, orderID, notification.TypeAppointmentProposed), 2)

		require.NoError(t, f.confirmAppointment(f.client, appointmentID))

		a = f.appointment(appointmentID)
		assert.Equal(t, appointment.Confirmed, a.Status())
		require.NotNil(t, a.ConfirmedAt())
		assert.Len(t, f.inboxOf(f.northTechnician, orderID, notification.TypeAppointmentConfirmed), 1)
		assert.Len(t, f.inboxOf(f.southCoordinator, orderID, notification.TypeAppointmentConfirmed), 1)
		assert.Subset(t, f.actions(orderID), []audit.Action{
			audit.ActionRequestReprogram, audit.ActionReproposeAppointment, audit.ActionConfirmAppointment,
		})
	})

	t.Run("should conflict when confirming a reprogram request before it is reproposed", func(t *testing.T) {
		f := newFixture(t)
		_, appointmentID := f.assignedOrder(f.northTechnician)
		require.NoError(t, f.requestReprogram(appointmentID, f.tomorrowAt(15), "Salgo tarde del trabajo"))

		err := f.confirmAppointment(f.client, appointmentID)

		require.ErrorIs(t, err, errs.ErrStateConflict)
		a := f.appointment(appointmentID)
		assert.Equal(t, appointment.Reprogrammed, a.Status())
		assert.Nil(t, a.ConfirmedAt())
	})

	t.Run("should let the coordinator choose another date", func(t *testing.T) {
		f := newFixture(t)
		_, appointmentID := f.assignedOrder(f.northTechnician)
		require.NoError(t, f.requestReprogram(appointmentID, f.tomorrowAt(15), "Salgo tarde del trabajo"))

		require.NoError(t, f.repropose(appointmentID, f.tomorrowAt(17)))

		assert.True(t, f.appointment(appointmentID).ScheduledAt().Equal(f.tomorrowAt(17)))
	})

	t.Run("should report a missing reason and a past date together", func(t *testing.T) {
		f := newFixture(t)
		_, appointmentID := f.assignedOrder(f.northTechnician)

		err := f.requestReprogram(appointmentID, startOfDay.Add(-time.Hour), " ")

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.True(t, validation.Has(appointment.CheckReprogramReason))
		assert.True(t, validation.Has(appointment.CheckScheduleInPast))
		assert.Equal(t, appointment.Proposed, f.appointment(appointmentID).Status())
	})

	t.Run("should conflict when reproposing a proposed appointment", func(t *testing.T) {
		f := newFixture(t)
		_, appointmentID := f.assignedOrder(f.northTechnician)

		err := f.repropose(appointmentID, f.tomorrowAt(17))

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should refuse clients that do not own the order", func(t *testing.T) {
		f := newFixture(t)
		_, appointmentID := f.assignedOrder(f.northTechnician)

		err := f.confirmAppointment(f.inactiveClient, appointmentID)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should conflict once the order is cancelled", func(t *testing.T) {
		f := newFixture(t)
		orderID, appointmentID := f.assignedOrder(f.northTechnician)
		cancel, err := commands.NewCancelOrderCommand(f.agent, orderID, "")
		require.NoError(t, err)
		_, err = commands.NewCancelOrderCommandHandler(f.engine).Handle(context.Background(), cancel)
		require.NoError(t, err)

		err = f.confirmAppointment(f.client, appointmentID)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should report unknown appointments", func(t *testing.T) {
		f := newFixture(t)

		err := f.confirmAppointment(f.client, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestMarkNotificationReadCommandHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
	created := f.inboxOf(f.client, orderID, notification.TypeOrderCreated)
	require.Len(t, created, 1)
	handler := commands.NewMarkNotificationReadCommandHandler(f.engine)

	t.Run("should refuse anybody but the recipient", func(t *testing.T) {
		cmd, err := commands.NewMarkNotificationReadCommand(f.agent, created[0].ID())
		require.NoError(t, err)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should mark the notification read for the recipient", func(t *testing.T) {
		cmd, err := commands.NewMarkNotificationReadCommand(f.client, created[0].ID())
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, cmd))

		unread, err := f.repos().NotificationRepository().ListByRecipient(ctx, f.client.UserID(), true)
		require.NoError(t, err)
		assert.Empty(t, unread)
	})
}

func TestUpdateTechnicianCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep the supervisor of orders assigned before a relocation", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)
		south := kernel.ZoneSouth
		cmd, err := commands.NewUpdateTechnicianCommand(f.northCoordinator, f.northTechnician.UserID(), &south, nil)
		require.NoError(t, err)

		require.NoError(t, commands.NewUpdateTechnicianCommandHandler(f.engine).Handle(ctx, cmd))

		tech, err := f.repos().TechnicianRepository().Get(ctx, f.northTechnician.UserID())
		require.NoError(t, err)
		assert.Equal(t, kernel.ZoneSouth, tech.Zone())
		assert.True(t, f.order(orderID).Coordinator().IsEqual(f.northCoordinator.UserID()))
	})

	t.Run("should make a technician unavailable for new assignments", func(t *testing.T) {
		f := newFixture(t)
		inactive := false
		cmd, err := commands.NewUpdateTechnicianCommand(f.southCoordinator, f.southTechnician.UserID(), nil, &inactive)
		require.NoError(t, err)
		require.NoError(t, commands.NewUpdateTechnicianCommandHandler(f.engine).Handle(ctx, cmd))
		orderID := f.validatedOrder()

		_, err = f.assign(orderID, f.southTechnician, f.tomorrowAt(10))

		require.ErrorIs(t, err, errs.ErrTechnicianUnavailable)
	})

	t.Run("should require at least one change", func(t *testing.T) {
		_, err := commands.NewUpdateTechnicianCommand(newActor(t, kernel.RoleCoordinator), kernel.NewUUID(), nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
