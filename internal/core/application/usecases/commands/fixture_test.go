package commands_test

import (
	"context"
	"testing"
	"time"

	"fieldservice/internal/adapters/out/lock"
	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/adapters/out/postgres/testdb"
	"fieldservice/internal/core/application/auditor"
	"fieldservice/internal/core/application/notifier"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/client"
	"fieldservice/internal/core/domain/model/coordinator"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/domain/model/technician"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/clock"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	bogota = time.FixedZone("COT", -5*60*60)
	// 2025-01-09 08:00 in the service timezone.
	startOfDay = time.Date(2025, 1, 9, 8, 0, 0, 0, bogota)
)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	return actorFor(t, kernel.NewUUID(), role)
}

func actorFor(t *testing.T, userID kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(userID, role)
	require.NoError(t, err)
	return actor
}

// fixture is an engine over an isolated SQLite database seeded with one active
// client, one inactive client, an agent, the north and south coordinators and
// three technicians.
type fixture struct {
	t          *testing.T
	db         *gorm.DB
	factory    *postgres.GormUnitOfWorkFactory
	clock      *clock.FixedClock
	dispatcher *notifier.Dispatcher
	recorder   *auditor.Recorder
	engine     *commands.Engine

	client           kernel.Actor
	inactiveClient   kernel.Actor
	agent            kernel.Actor
	northCoordinator kernel.Actor
	southCoordinator kernel.Actor
	northTechnician  kernel.Actor
	southTechnician  kernel.Actor
	offTechnician    kernel.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith builds the fixture with wrap applied to the unit of work
// factory used by the engine. Seeding always uses the real factory.
func newFixtureWith(t *testing.T, wrap func(commands.UoWFactory) commands.UoWFactory) *fixture {
	t.Helper()

	db := testdb.Open(t)
	f := &fixture{
		t:       t,
		db:      db,
		factory: postgres.NewGormUnitOfWorkFactory(db),
		clock:   clock.NewFixed(startOfDay, bogota),
	}
	f.dispatcher = notifier.NewDispatcher(f.clock, notification.ChannelInApp, 16, nil, nil)
	f.recorder = auditor.NewRecorder(f.clock, 16, nil, nil)

	var factory commands.UoWFactory = f.factory
	if wrap != nil {
		factory = wrap(factory)
	}
	engine, err := commands.NewEngine(factory, lock.NewMemoryOrderLocker(), f.clock, f.dispatcher, f.recorder,
		commands.WithTimeout(5*time.Second))
	require.NoError(t, err)
	f.engine = engine

	f.seed()
	return f
}

func (f *fixture) seed() {
	ctx := context.Background()
	uow := f.factory.Create()

	f.client = newActor(f.t, kernel.RoleClient)
	active, err := client.NewClient(f.client.UserID(), "María Gómez", "3001234567", "maria@example.com",
		client.AccountActive)
	require.NoError(f.t, err)
	require.NoError(f.t, uow.ClientRepository().Add(ctx, active))

	f.inactiveClient = newActor(f.t, kernel.RoleClient)
	inactive, err := client.NewClient(f.inactiveClient.UserID(), "Pedro Ruiz", "", "", client.AccountInactive)
	require.NoError(f.t, err)
	require.NoError(f.t, uow.ClientRepository().Add(ctx, inactive))

	f.agent = newActor(f.t, kernel.RoleAgent)

	f.northCoordinator = newActor(f.t, kernel.RoleCoordinator)
	f.southCoordinator = newActor(f.t, kernel.RoleCoordinator)
	for _, c := range []struct {
		actor kernel.Actor
		name  string
		zone  kernel.Zone
	}{
		{f.northCoordinator, "Ana Norte", kernel.ZoneNorth},
		{f.southCoordinator, "Bruno Sur", kernel.ZoneSouth},
	} {
		coord, err := coordinator.NewCoordinator(c.actor.UserID(), c.name, c.zone, true)
		require.NoError(f.t, err)
		require.NoError(f.t, uow.CoordinatorRepository().Add(ctx, coord))
	}

	f.northTechnician = newActor(f.t, kernel.RoleTechnician)
	f.southTechnician = newActor(f.t, kernel.RoleTechnician)
	f.offTechnician = newActor(f.t, kernel.RoleTechnician)
	for _, tc := range []struct {
		actor  kernel.Actor
		name   string
		zone   kernel.Zone
		active bool
	}{
		{f.northTechnician, "Carlos Norte", kernel.ZoneNorth, true},
		{f.southTechnician, "Diana Sur", kernel.ZoneSouth, true},
		{f.offTechnician, "Elena Centro", kernel.ZoneCenter, false},
	} {
		tech, err := technician.RestoreTechnician(tc.actor.UserID(), tc.name, tc.zone, tc.active)
		require.NoError(f.t, err)
		require.NoError(f.t, uow.TechnicianRepository().Add(ctx, tech))
	}
}

func (f *fixture) createOrder(clientActor kernel.Actor, description string) kernel.UUID {
	f.t.Helper()
	cmd, err := commands.NewCreateOrderCommand(clientActor, clientActor.UserID(), order.ServiceRepair,
		description, "Calle 10 # 4-21, Bogotá")
	require.NoError(f.t, err)

	result, err := commands.NewCreateOrderCommandHandler(f.engine).Handle(context.Background(), cmd)
	require.NoError(f.t, err)
	return result.OrderID
}

func (f *fixture) validatedOrder() kernel.UUID {
	f.t.Helper()
	orderID := f.createOrder(f.client, "El router no enciende después de la tormenta")
	cmd, err := commands.NewValidateOrderCommand(f.agent, orderID)
	require.NoError(f.t, err)
	_, err = commands.NewValidateOrderCommandHandler(f.engine).Handle(context.Background(), cmd)
	require.NoError(f.t, err)
	return orderID
}

// assignedOrder returns an order assigned to tech with its proposed appointment.
func (f *fixture) assignedOrder(tech kernel.Actor) (kernel.UUID, kernel.UUID) {
	f.t.Helper()
	orderID := f.validatedOrder()
	result, err := f.assign(orderID, tech, f.tomorrowAt(10))
	require.NoError(f.t, err)
	require.NotNil(f.t, result.AppointmentID)
	return orderID, *result.AppointmentID
}

func (f *fixture) assign(orderID kernel.UUID, tech kernel.Actor, at time.Time) (commands.TransitionResult, error) {
	f.t.Helper()
	cmd, err := commands.NewAssignTechnicianCommand(f.northCoordinator, orderID, tech.UserID(), at)
	require.NoError(f.t, err)
	return commands.NewAssignTechnicianCommandHandler(f.engine).Handle(context.Background(), cmd)
}

func (f *fixture) startWork(orderID kernel.UUID, tech kernel.Actor) error {
	f.t.Helper()
	cmd, err := commands.NewStartWorkCommand(tech, orderID)
	require.NoError(f.t, err)
	_, err = commands.NewStartWorkCommandHandler(f.engine).Handle(context.Background(), cmd)
	return err
}

func (f *fixture) finishWork(orderID kernel.UUID, tech kernel.Actor) error {
	f.t.Helper()
	cmd, err := commands.NewFinishWorkCommand(tech, orderID, "Se reemplazó la fuente de poder del router")
	require.NoError(f.t, err)
	_, err = commands.NewFinishWorkCommandHandler(f.engine).Handle(context.Background(), cmd)
	return err
}

// completedOrder returns an order whose work was finished by the north technician.
func (f *fixture) completedOrder() (kernel.UUID, kernel.UUID) {
	f.t.Helper()
	orderID, appointmentID := f.assignedOrder(f.northTechnician)
	require.NoError(f.t, f.startWork(orderID, f.northTechnician))
	require.NoError(f.t, f.finishWork(orderID, f.northTechnician))
	return orderID, appointmentID
}

func (f *fixture) tomorrowAt(hour int) time.Time {
	return time.Date(2025, 1, 10, hour, 0, 0, 0, bogota)
}

func (f *fixture) repos() ports.UnitOfWork {
	return f.factory.Create()
}

func (f *fixture) order(id kernel.UUID) *order.ServiceOrder {
	f.t.Helper()
	o, err := f.repos().OrderRepository().Get(context.Background(), id)
	require.NoError(f.t, err)
	return o
}

func (f *fixture) appointment(id kernel.UUID) *appointment.Appointment {
	f.t.Helper()
	a, err := f.repos().AppointmentRepository().Get(context.Background(), id)
	require.NoError(f.t, err)
	return a
}

func (f *fixture) inbox(recipient kernel.Actor) []*notification.Notification {
	f.t.Helper()
	list, err := f.repos().NotificationRepository().ListByRecipient(context.Background(), recipient.UserID(), false)
	require.NoError(f.t, err)
	return list
}

// inboxOf returns the notifications of recipient about orderID with the given type.
func (f *fixture) inboxOf(recipient kernel.Actor, orderID kernel.UUID, kind notification.Type) []*notification.Notification {
	f.t.Helper()
	var out []*notification.Notification
	for _, n := range f.inbox(recipient) {
		if n.Type() == kind && n.OrderID() != nil && n.OrderID().IsEqual(orderID) {
			out = append(out, n)
		}
	}
	return out
}

func (f *fixture) trail(orderID kernel.UUID) []*audit.Record {
	f.t.Helper()
	records, err := f.repos().AuditRepository().ListByOrder(context.Background(), orderID)
	require.NoError(f.t, err)
	return records
}

func (f *fixture) actions(orderID kernel.UUID) []audit.Action {
	f.t.Helper()
	var out []audit.Action
	for _, r := range f.trail(orderID) {
		out = append(out, r.Action())
	}
	return out
}
