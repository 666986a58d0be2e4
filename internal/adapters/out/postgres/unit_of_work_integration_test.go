package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/core/domain/model/appointment"
	"fieldservice/internal/core/domain/model/audit"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/model/notification"
	"fieldservice/internal/core/domain/model/order"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real
// PostgreSQL, where a failed statement aborts the whole transaction unless it
// ran inside a savepoint.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	now       time.Time
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("integration test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.AutoMigrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.now = time.Date(2025, 1, 9, 13, 0, 0, 0, time.UTC)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE service_orders, order_executions, appointments,
		notifications, audit_records`).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsEveryRepositoryWrite() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	a, err := appointment.NewAppointment(kernel.NewUUID(), o.ID(), suite.now.Add(24*time.Hour), suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.AppointmentRepository().Add(ctx, a))
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, suite.newNotification(o, o.ClientID())))
	suite.Require().NoError(uow.AuditRepository().Add(ctx, suite.newRecord(o)))

	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err = reader.OrderRepository().Get(ctx, o.ID())
	suite.NoError(err)
	active, err := reader.AppointmentRepository().GetActiveByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(active.ID().IsEqual(a.ID()))
	inbox, err := reader.NotificationRepository().ListByRecipient(ctx, o.ClientID(), true)
	suite.Require().NoError(err)
	suite.Len(inbox, 1)
	trail, err := reader.AuditRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(trail, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEveryWrite() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, suite.newNotification(o, o.ClientID())))
	suite.Require().NoError(uow.AuditRepository().Add(ctx, suite.newRecord(o)))

	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
	inbox, err := reader.NotificationRepository().ListByRecipient(ctx, o.ClientID(), false)
	suite.Require().NoError(err)
	suite.Empty(inbox)
	trail, err := reader.AuditRepository().ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(trail)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFailedNotification_KeepsTransactionUsable() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	n := suite.newNotification(o, o.ClientID())
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, n))

	// Same primary key: the insert fails inside its savepoint.
	suite.Error(uow.NotificationRepository().Add(ctx, n))

	suite.Require().NoError(uow.AuditRepository().Add(ctx, suite.newRecord(o)))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err := reader.OrderRepository().Get(ctx, o.ID())
	suite.NoError(err)
	inbox, err := reader.NotificationRepository().ListByRecipient(ctx, o.ClientID(), false)
	suite.Require().NoError(err)
	suite.Len(inbox, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsNoop() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder()))

	suite.NoError(uow.Commit(ctx))
	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitAndRollback_WithoutBegin_Fail() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTrackedAggregates_ResetOnRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()
	gormUoW, ok := uow.(*postgres_adapter.GormUnitOfWork)
	suite.Require().True(ok)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder()))
	suite.Equal(1, gormUoW.TrackedCount())

	suite.Require().NoError(uow.Rollback(ctx))
	suite.Zero(gormUoW.TrackedCount())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.ServiceOrder {
	id := kernel.NewUUID()
	o, err := order.NewServiceOrder(id, order.NewOrderNumber(suite.now, id), kernel.NewUUID(), nil,
		order.ServiceInstallation, "Instalación de fibra", "Carrera 7 # 12-40", suite.now)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newNotification(o *order.ServiceOrder, recipient kernel.UUID) *notification.Notification {
	orderID := o.ID()
	n, err := notification.NewNotification(kernel.NewUUID(), &orderID, recipient,
		notification.TypeOrderCreated, notification.ChannelInApp, "Orden creada", suite.now)
	suite.Require().NoError(err)
	return n
}

func (suite *UnitOfWorkIntegrationTestSuite) newRecord(o *order.ServiceOrder) *audit.Record {
	orderID := o.ID()
	r, err := audit.NewRecord(kernel.NewUUID(), o.ClientID(), &orderID, audit.ActionCreateOrder, "Orden creada", suite.now)
	suite.Require().NoError(err)
	return r
}
