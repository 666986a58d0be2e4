// Package testdb opens an isolated in-memory SQLite database with the full schema,
// for tests that exercise the GORM adapters without a postgres container.
package testdb

import (
	"fmt"
	"testing"

	"fieldservice/internal/adapters/out/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database private to t. A single connection is used so
// concurrent transactions serialize instead of failing with SQLITE_BUSY.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, postgres.AutoMigrate(db))
	return db
}
