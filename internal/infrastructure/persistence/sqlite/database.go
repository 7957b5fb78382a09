// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"

	gormModels "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database, migrates the
// schema and seeds reference data
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	memory := dbPath == "" || dbPath == ":memory:"
	dsn := dbPath
	if memory {
		dsn = "file::memory:"
	}
	dsn += "?_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// sqlite allows a single writer; an in-memory database also lives
	// only as long as its one connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := gormModels.SeedReferenceData(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return db, nil
}
