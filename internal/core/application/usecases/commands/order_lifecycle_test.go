package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should create an order for the client itself", func(t *testing.T) {
		f := newFixture(t)

		orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")

		o := f.order(orderID)
		assert.Equal(t, order.Created, o.Status())
		assert.Nil(t, o.CreatedBy())
		assert.Regexp(t, `^OS-20250109-`, o.Number())
		assert.Len(t, f.inboxOf(f.client, orderID, notification.TypeOrderCreated), 1)
		assert.Equal(t, []audit.Action{audit.ActionCreateOrder}, f.actions(orderID))
	})

	t.Run("should record the agent creating on behalf of a client", func(t *testing.T) {
		f := newFixture(t)
		cmd, err := commands.NewCreateOrderCommand(f.agent, f.client.UserID(), order.ServiceInstallation,
			"Instalación de fibra en el segundo piso", "Carrera 7 # 72-41")
		require.NoError(t, err)

		result, err := commands.NewCreateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		createdBy := f.order(result.OrderID).CreatedBy()
		require.NotNil(t, createdBy)
		assert.True(t, createdBy.IsEqual(f.agent.UserID()))
	})

	t.Run("should refuse a client creating for somebody else", func(t *testing.T) {
		f := newFixture(t)
		cmd, err := commands.NewCreateOrderCommand(f.client, f.inactiveClient.UserID(), order.ServiceRepair,
			"El router no enciende después de la tormenta", "Calle 10")
		require.NoError(t, err)

		_, err = commands.NewCreateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should report unknown clients", func(t *testing.T) {
		f := newFixture(t)
		cmd, err := commands.NewCreateOrderCommand(f.agent, kernel.NewUUID(), order.ServiceRepair,
			"El router no enciende después de la tormenta", "Calle 10")
		require.NoError(t, err)

		_, err = commands.NewCreateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValidateOrderCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should validate and notify the client and every active coordinator", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
		cmd, err := commands.NewValidateOrderCommand(f.agent, orderID)
		require.NoError(t, err)

		result, err := commands.NewValidateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Delivered)
		assert.Equal(t, 1, result.Writes)
		assert.Nil(t, result.NotificationFailure)
		assert.Equal(t, order.Validated, f.order(orderID).Status())
		for _, recipient := range []kernel.Actor{f.client, f.northCoordinator, f.southCoordinator} {
			assert.Len(t, f.inboxOf(recipient, orderID, notification.TypeOrderValidated), 1)
		}
		assert.Contains(t, f.actions(orderID), audit.ActionValidateOrder)
	})

	t.Run("should report every failed check and leave the order untouched", func(t *testing.T) {
		f := newFixture(t)
		cmd, err := commands.NewCreateOrderCommand(f.agent, f.inactiveClient.UserID(), order.ServiceRepair,
			"No funciona", "")
		require.NoError(t, err)
		created, err := commands.NewCreateOrderCommandHandler(f.engine).Handle(ctx, cmd)
		require.NoError(t, err)

		validate, err := commands.NewValidateOrderCommand(f.agent, created.OrderID)
		require.NoError(t, err)
		_, err = commands.NewValidateOrderCommandHandler(f.engine).Handle(ctx, validate)

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.True(t, validation.Has(services.CheckClientInactive))
		assert.True(t, validation.Has(services.CheckDescriptionShort))
		assert.True(t, validation.Has(services.CheckAddressMissing))
		assert.True(t, validation.Has(services.CheckContactDataMissing))
		assert.Equal(t, order.Created, f.order(created.OrderID).Status())
		assert.Empty(t, f.inboxOf(f.northCoordinator, created.OrderID, notification.TypeOrderValidated))
	})

	t.Run("should refuse callers that are not agents", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
		cmd, err := commands.NewValidateOrderCommand(f.client, orderID)
		require.NoError(t, err)

		_, err = commands.NewValidateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should conflict when validating twice", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.validatedOrder()
		cmd, err := commands.NewValidateOrderCommand(f.agent, orderID)
		require.NoError(t, err)

		_, err = commands.NewValidateOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestRejectOrderCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should require a reason of ten characters", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
		cmd, err := commands.NewRejectOrderCommand(f.agent, orderID, "duplicada")
		require.NoError(t, err)

		_, err = commands.NewRejectOrderCommandHandler(f.engine).Handle(ctx, cmd)

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.True(t, validation.Has(order.CheckRejectionReason))
	})

	t.Run("should cancel the order and keep the reason", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
		cmd, err := commands.NewRejectOrderCommand(f.agent, orderID, "Orden duplicada de OS-1")
		require.NoError(t, err)

		_, err = commands.NewRejectOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		o := f.order(orderID)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "Orden duplicada de OS-1", o.RejectionReason())
		require.Len(t, f.inboxOf(f.client, orderID, notification.TypeOrderRejected), 1)
		records := f.trail(orderID)
		var found bool
		for _, r := range records {
			if r.Action() == audit.ActionRejectOrder {
				found = true
				assert.Contains(t, r.Description(), "Orden duplicada de OS-1")
			}
		}
		assert.True(t, found)
	})
}

func TestAssignTechnicianCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should assign, resolve the zone coordinator and propose the visit", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.validatedOrder()

		result, err := f.assign(orderID, f.northTechnician, f.tomorrowAt(10))

		require.NoError(t, err)
		assert.Equal(t, 2, result.Writes)
		o := f.order(orderID)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Technician())
		assert.True(t, o.Technician().IsEqual(f.northTechnician.UserID()))
		require.NotNil(t, o.Coordinator())
		assert.True(t, o.Coordinator().IsEqual(f.northCoordinator.UserID()))

		require.NotNil(t, result.AppointmentID)
		a := f.appointment(*result.AppointmentID)
		assert.Equal(t, appointment.Proposed, a.Status())
		assert.True(t, a.ScheduledAt().Equal(f.tomorrowAt(10)))

		assert.Len(t, f.inboxOf(f.northTechnician, orderID, notification.TypeTechnicianAssigned), 1)
		assert.Len(t, f.inboxOf(f.client, orderID, notification.TypeAppointmentProposed), 1)
		assert.Contains(t, f.actions(orderID), audit.ActionAssignTechnician)
	})

	t.Run("should assign without coordinator when none covers the zone", func(t *testing.T) {
		f := newFixture(t)
		eastTechnician := newActor(t, kernel.RoleTechnician)
		create, err := commands.NewCreateTechnicianCommand(f.northCoordinator, eastTechnician.UserID(),
			"Felipe Este", kernel.ZoneEast)
		require.NoError(t, err)
		require.NoError(t, commands.NewCreateTechnicianCommandHandler(f.engine).Handle(ctx, create))
		orderID := f.validatedOrder()

		_, err = f.assign(orderID, eastTechnician, f.tomorrowAt(10))

		require.NoError(t, err)
		assert.Nil(t, f.order(orderID).Coordinator())
	})

	t.Run("should refuse an unavailable technician", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.validatedOrder()

		_, err := f.assign(orderID, f.offTechnician, f.tomorrowAt(10))

		require.ErrorIs(t, err, errs.ErrTechnicianUnavailable)
		assert.Equal(t, order.Validated, f.order(orderID).Status())
	})

	t.Run("should refuse a visit in the past", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.validatedOrder()

		_, err := f.assign(orderID, f.northTechnician, startOfDay.Add(-1))

		var validation *errs.ValidationError
		require.True(t, errors.As(err, &validation))
		assert.True(t, validation.Has(appointment.CheckScheduleInPast))
		assert.Equal(t, order.Validated, f.order(orderID).Status())
	})

	t.Run("should conflict for an order already assigned", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)

		_, err := f.assign(orderID, f.southTechnician, f.tomorrowAt(11))

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should only let one of two concurrent assignments win", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.validatedOrder()
		handler := commands.NewAssignTechnicianCommandHandler(f.engine)

		var wg sync.WaitGroup
		errsCh := make(chan error, 2)
		for _, tech := range []kernel.Actor{f.northTechnician, f.southTechnician} {
			cmd, err := commands.NewAssignTechnicianCommand(f.northCoordinator, orderID, tech.UserID(), f.tomorrowAt(10))
			require.NoError(t, err)
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := handler.Handle(ctx, cmd)
				errsCh <- err
			}()
		}
		wg.Wait()
		close(errsCh)

		var succeeded, conflicted int
		for err := range errsCh {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errs.ErrStateConflict):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, conflicted)

		appointments, err := f.repos().AppointmentRepository().ListByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, appointments, 1)
	})
}

func TestStartWorkCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should open exactly one execution", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)

		require.NoError(t, f.startWork(orderID, f.northTechnician))
		err := f.startWork(orderID, f.northTechnician)

		require.ErrorIs(t, err, errs.ErrAlreadyStarted)
		count, err := f.repos().ExecutionRepository().CountByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, order.InProgress, f.order(orderID).Status())
	})

	t.Run("should refuse technicians not assigned to the order", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)

		err := f.startWork(orderID, f.southTechnician)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestFinishWorkCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should refuse technicians not assigned to the order", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)
		require.NoError(t, f.startWork(orderID, f.northTechnician))

		err := f.finishWork(orderID, f.southTechnician)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Equal(t, order.InProgress, f.order(orderID).Status())
		exec, err := f.repos().ExecutionRepository().GetByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, exec.FinishedAt())
	})

	t.Run("should conflict when the work was never started", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)

		err := f.finishWork(orderID, f.northTechnician)

		require.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Equal(t, order.Assigned, f.order(orderID).Status())
		assert.Nil(t, f.order(orderID).CompletedAt())
		assert.NotContains(t, f.actions(orderID), audit.ActionFinishWork)
	})
}

func TestServiceConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("should complete the order and every appointment on confirmation", func(t *testing.T) {
		f := newFixture(t)
		orderID, appointmentID := f.completedOrder()
		assert.Len(t, f.inboxOf(f.client, orderID, notification.TypeWorkFinished), 1)

		cmd, err := commands.NewConfirmServiceCommand(f.client, orderID)
		require.NoError(t, err)
		_, err = commands.NewConfirmServiceCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		o := f.order(orderID)
		assert.Equal(t, order.Completed, o.Status())
		require.NotNil(t, o.CompletedAt())
		assert.True(t, f.appointment(appointmentID).Status().IsTerminal())
		exec, err := f.repos().ExecutionRepository().GetByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, order.ConfirmationConfirmed, exec.Confirmation())
		for _, recipient := range []kernel.Actor{f.northTechnician, f.northCoordinator, f.southCoordinator} {
			assert.Len(t, f.inboxOf(recipient, orderID, notification.TypeServiceConfirmed), 1)
		}
	})

	t.Run("should reopen the order when the client rejects the service", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.completedOrder()

		cmd, err := commands.NewRejectServiceCommand(f.client, orderID, "La conexión sigue cayéndose")
		require.NoError(t, err)
		_, err = commands.NewRejectServiceCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		o := f.order(orderID)
		assert.Equal(t, order.InProgress, o.Status())
		assert.Nil(t, o.CompletedAt())
		assert.Len(t, f.inboxOf(f.northTechnician, orderID, notification.TypeServiceRejected), 1)
		assert.Len(t, f.inboxOf(f.northCoordinator, orderID, notification.TypeServiceRejected), 1)
		assert.Empty(t, f.inboxOf(f.southCoordinator, orderID, notification.TypeServiceRejected))

		require.ErrorIs(t, f.startWork(orderID, f.northTechnician), errs.ErrAlreadyStarted)
		require.NoError(t, f.finishWork(orderID, f.northTechnician))
		assert.Equal(t, order.Completed, f.order(orderID).Status())
	})

	t.Run("should refuse other clients", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.completedOrder()

		cmd, err := commands.NewConfirmServiceCommand(f.inactiveClient, orderID)
		require.NoError(t, err)
		_, err = commands.NewConfirmServiceCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should conflict before the work is finished", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)
		require.NoError(t, f.startWork(orderID, f.northTechnician))

		cmd, err := commands.NewConfirmServiceCommand(f.client, orderID)
		require.NoError(t, err)
		_, err = commands.NewConfirmServiceCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})
}

func TestCancelOrderCommandHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("should cancel the order and its open appointment", func(t *testing.T) {
		f := newFixture(t)
		orderID, appointmentID := f.assignedOrder(f.northTechnician)

		cmd, err := commands.NewCancelOrderCommand(f.agent, orderID, "Cliente se mudó")
		require.NoError(t, err)
		_, err = commands.NewCancelOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.NoError(t, err)
		o := f.order(orderID)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.Technician())
		assert.Equal(t, "Cliente se mudó", o.CancellationReason())
		assert.Equal(t, appointment.Cancelled, f.appointment(appointmentID).Status())
		assert.Len(t, f.inboxOf(f.client, orderID, notification.TypeOrderCancelled), 1)
		assert.Len(t, f.inboxOf(f.northTechnician, orderID, notification.TypeOrderCancelled), 1)
	})

	t.Run("should conflict for completed orders", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.completedOrder()

		cmd, err := commands.NewCancelOrderCommand(f.northCoordinator, orderID, "")
		require.NoError(t, err)
		_, err = commands.NewCancelOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should refuse technicians", func(t *testing.T) {
		f := newFixture(t)
		orderID, _ := f.assignedOrder(f.northTechnician)

		cmd, err := commands.NewCancelOrderCommand(f.northTechnician, orderID, "")
		require.NoError(t, err)
		_, err = commands.NewCancelOrderCommandHandler(f.engine).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}
