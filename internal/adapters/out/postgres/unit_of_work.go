// Package postgres provides the GORM-based Unit of Work of the field-service engine.
// One unit of work carries one transition on one order: the order row update, the
// appointment and execution writes, and the notification and audit rows are all
// written through repositories bound to the same transaction.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	// ... mutate o, write appointments, notifications and audit records
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Notification and audit inserts run as nested transactions (savepoints), so a
// failed row is rolled back alone while a failed commit discards all of them.
package postgres

import (
	"context"

	"fieldservice/internal/adapters/out/postgres/appointmentrepo"
	"fieldservice/internal/adapters/out/postgres/auditrepo"
	"fieldservice/internal/adapters/out/postgres/clientrepo"
	"fieldservice/internal/adapters/out/postgres/coordinatorrepo"
	"fieldservice/internal/adapters/out/postgres/notificationrepo"
	"fieldservice/internal/adapters/out/postgres/orderrepo"
	"fieldservice/internal/adapters/out/postgres/technicianrepo"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate changes
// for business operations.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance do not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}
	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction. It is safe
// to defer after a successful Commit; it then returns gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// conn returns the active transaction, or the main connection outside Begin/Commit.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ExecutionRepository() ports.ExecutionRepository {
	return orderrepo.NewGormExecutionRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AppointmentRepository() ports.AppointmentRepository {
	return appointmentrepo.NewGormAppointmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TechnicianRepository() ports.TechnicianRepository {
	return technicianrepo.NewGormTechnicianRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CoordinatorRepository() ports.CoordinatorRepository {
	return coordinatorrepo.NewGormCoordinatorRepository(uow.conn())
}

func (uow *GormUnitOfWork) ClientRepository() ports.ClientRepository {
	return clientrepo.NewGormClientRepository(uow.conn())
}

func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	return notificationrepo.NewGormNotificationRepository(uow.conn())
}

func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// Repository implementations call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount returns how many aggregate writes the unit of work has seen. A
// rollback resets it. Transitions report it as their write count.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}
