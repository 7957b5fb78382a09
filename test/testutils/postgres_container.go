//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/postgres"
)

// PostgresContainer is a throwaway postgres server
type PostgresContainer struct {
	Container testcontainers.Container
	Config    *config.Config
	Manager   *postgres.ConnectionManager
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "mealplanner_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// SetupPostgres starts a postgres container and connects a migrated
// ConnectionManager to it
func SetupPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	cfg := DefaultDatabaseConfig()

	dsn := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{cfg.Port + "/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(nat.Port(cfg.Port+"/tcp"), "pgx", dsn),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port(cfg.Port))
	require.NoError(t, err)

	// sanity check with the plain driver before handing over to gorm
	sqlDB, err := sql.Open("pgx", dsn(host, port))
	require.NoError(t, err)
	require.NoError(t, sqlDB.PingContext(ctx), "Failed to ping test database")
	sqlDB.Close()

	appConfig := &config.Config{
		App: config.AppConfig{Environment: "test"},
		Database: config.DatabaseConfig{
			Driver:             "postgres",
			Host:               host,
			Port:               port.Int(),
			Database:           cfg.Database,
			Username:           cfg.Username,
			Password:           cfg.Password,
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       2,
			ConnMaxLifetime:    time.Hour,
			LogLevel:           "silent",
			SlowQueryThreshold: time.Second,
			AutoMigrate:        true,
		},
	}

	manager, err := postgres.NewConnectionManager(appConfig, zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { manager.Close() })

	return &PostgresContainer{
		Container: container,
		Config:    appConfig,
		Manager:   manager,
	}
}
