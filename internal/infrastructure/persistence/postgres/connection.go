// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// ConnectionManager owns the PostgreSQL connection pool and optional read replicas
type ConnectionManager struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
}

// NewConnectionManager opens the primary connection, registers read
// replicas and migrates the schema when enabled
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("postgres"),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(); err != nil {
		cm.logger.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := cm.db.AutoMigrate(gormModels.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if err := gormModels.SeedReferenceData(context.Background(), cm.db); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	cm.logger.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.Database.ConnMaxLifetime),
		zap.Int("read_replicas", len(cfg.Database.ReadReplicas)),
	)

	return cm, nil
}

func (cm *ConnectionManager) initializePrimaryConnection() error {
	db, err := gorm.Open(postgres.Open(cm.config.GetDSN(cm.config.Database.Host)), &gorm.Config{
		Logger: NewGORMLogger(cm.logger, cm.config.Database.LogLevel, cm.config.Database.SlowQueryThreshold),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cm.config.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cm.config.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cm.config.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB
	return nil
}

// initializeReadReplicas routes catalog reads to replicas using the GORM DB resolver
func (cm *ConnectionManager) initializeReadReplicas() error {
	if len(cm.config.Database.ReadReplicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(cm.config.Database.ReadReplicas))
	for i, host := range cm.config.Database.ReadReplicas {
		replicas[i] = postgres.Open(cm.config.GetDSN(host))
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cm.config.Database.MaxOpenConns).
		SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", len(replicas)))
	return nil
}

// GetDB returns the main database connection
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// HealthCheck pings the primary database
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the primary connection pool
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	if err := cm.writeDB.Close(); err != nil {
		cm.logger.Error("Failed to close primary database", zap.Error(err))
		return err
	}
	return nil
}

// NewGORMLogger routes GORM logs through zap
func NewGORMLogger(log *zap.Logger, level string, slowThreshold time.Duration) logger.Interface {
	logLevel := logger.Silent
	switch level {
	case "debug", "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	}

	return logger.New(
		&GORMLogWriter{logger: log},
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// GORMLogWriter implements GORM's Writer interface for query logging
type GORMLogWriter struct {
	logger *zap.Logger
}

// Printf implements the Writer interface
func (w *GORMLogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("GORM slow query", zap.String("message", msg))
	case strings.Contains(msg, "Error"), strings.Contains(msg, "ERROR"):
		w.logger.Error("GORM error", zap.String("message", msg))
	default:
		w.logger.Debug("GORM log", zap.String("message", msg))
	}
}
