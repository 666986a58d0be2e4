package postgres

import (
	"fieldservice/internal/adapters/out/postgres/appointmentrepo"
	"fieldservice/internal/adapters/out/postgres/auditrepo"
	"fieldservice/internal/adapters/out/postgres/clientrepo"
	"fieldservice/internal/adapters/out/postgres/coordinatorrepo"
	"fieldservice/internal/adapters/out/postgres/notificationrepo"
	"fieldservice/internal/adapters/out/postgres/orderrepo"
	"fieldservice/internal/adapters/out/postgres/technicianrepo"

	"gorm.io/gorm"
)

// Models lists every persisted DTO. Schema migration is owned by the deployment;
// AutoMigrate is used for local development and tests only.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.ExecutionDTO{},
		&appointmentrepo.AppointmentDTO{},
		&technicianrepo.TechnicianDTO{},
		&coordinatorrepo.CoordinatorDTO{},
		&clientrepo.ClientDTO{},
		&notificationrepo.NotificationDTO{},
		&auditrepo.RecordDTO{},
	}
}

// AutoMigrate creates or updates every table of Models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
