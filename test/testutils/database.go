package testutils

import (
	"fmt"
	"testing"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupSQLiteDatabase returns a migrated and seeded in-memory database that
// is closed when the test ends
func SetupSQLiteDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", logger.Silent)
	require.NoError(t, err, "Failed to set up sqlite database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CountRecords counts rows in a table
func CountRecords(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()

	var count int64
	err := db.Table(table).Count(&count).Error
	require.NoError(t, err, fmt.Sprintf("Failed to count %s", table))
	return count
}
