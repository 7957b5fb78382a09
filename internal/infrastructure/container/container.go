// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/application/catalog"
	appmealplan "github.com/alchemorsel/mealplanner/internal/application/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/cache"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/spoonacular"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConfigPath is the configuration file to load; empty searches the default locations
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	ExternalCatalogModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// Lifecycle hooks
	LifecycleModule,

	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		l := &fxevent.ZapLogger{Logger: log.Named("fx")}
		l.UseLogLevel(zap.DebugLevel)
		return l
	}),
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) appmealplan.Metrics {
		return m
	},
	func(cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		return monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
	},
)

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*gorm.DB, error) {
		var db *gorm.DB
		switch cfg.Database.Driver {
		case "postgres":
			cm, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
			db = cm.GetDB()
		default:
			logLevel := gormLogger.Silent
			if cfg.App.Debug {
				logLevel = gormLogger.Info
			}
			var err error
			db, err = sqlite.SetupDatabase(cfg.Database.Path, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
			}
			lc.Append(fx.Hook{OnStop: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			}})
			log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
		}

		if sqlDB, err := db.DB(); err == nil {
			if err := metrics.RegisterDBStats(sqlDB, cfg.Database.Driver); err != nil {
				log.Warn("Failed to register database metrics", zap.Error(err))
			}
		}
		return db, nil
	},
)

// CacheModule provides Redis caching when configured and an in-memory cache otherwise
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if !cfg.RedisEnabled() {
			log.Info("Using in-memory cache")
			repo := memory.NewCacheRepository(time.Minute)
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return repo.Close() }})
			return repo, nil
		}

		client, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		return redisRepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log), nil
	},
)

// ExternalCatalogModule provides the cached Spoonacular client
var ExternalCatalogModule = fx.Provide(
	func(cfg *config.Config, store outbound.CacheRepository, metrics *monitoring.MetricsCollector, log *zap.Logger) outbound.ExternalRecipeCatalog {
		client := spoonacular.NewClient(spoonacular.Options{
			BaseURL:           cfg.Spoonacular.BaseURL,
			APIKey:            cfg.Spoonacular.APIKey,
			Timeout:           cfg.Spoonacular.Timeout,
			RequestsPerSecond: cfg.Spoonacular.RequestsPerSecond,
			Burst:             cfg.Spoonacular.Burst,
			MaxRetries:        cfg.Spoonacular.MaxRetries,
			MaxBackoff:        cfg.Spoonacular.MaxBackoff,
		}, log)
		if cfg.Spoonacular.CacheTTL <= 0 {
			return client
		}
		return cache.NewSearchCache(client, store, cfg.Spoonacular.CacheTTL, metrics, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewRecipeRepository,
		fx.As(new(outbound.RecipeCatalog)),
	),
	fx.Annotate(
		gormRepo.NewPreferencesRepository,
		fx.As(new(outbound.PreferencesRepository)),
	),
	fx.Annotate(
		gormRepo.NewMealPlanRepository,
		fx.As(new(outbound.MealPlanRepository)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config) mealplan.Shuffler {
		return mealplan.NewLockedRand(cfg.MealPlan.Seed)
	},
	mealplan.NewAssembler,
	appmealplan.NewRecipeSourcer,
	func(cfg *config.Config, sourcer *appmealplan.RecipeSourcer, assembler *mealplan.Assembler, metrics appmealplan.Metrics, log *zap.Logger) *appmealplan.Generator {
		return appmealplan.NewGenerator(sourcer, assembler, metrics, log).
			WithExternalAttempts(cfg.MealPlan.ExternalAttempts)
	},
	func(cfg *config.Config, sourcer *appmealplan.RecipeSourcer, log *zap.Logger) *appmealplan.Suggester {
		return appmealplan.NewSuggester(sourcer, log).
			WithDefaultLimit(cfg.MealPlan.SuggestionLimit)
	},
	func(cfg *config.Config) appmealplan.ServiceConfig {
		return appmealplan.ServiceConfig{
			DefaultDays:         cfg.MealPlan.DefaultDays,
			MaxDays:             cfg.MealPlan.MaxDays,
			DefaultCaloriesGoal: cfg.MealPlan.DefaultCaloriesGoal,
		}
	},
	appmealplan.NewService,
	catalog.NewLoader,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
) {
	var metricsServer *monitoring.MetricsServer
	if cfg.Monitoring.EnableMetrics {
		metricsServer = monitoring.NewMetricsServer(metrics, cfg.Monitoring.MetricsPort)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting meal planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)
			if metricsServer != nil {
				metricsServer.Start()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if metricsServer != nil {
				if err := metricsServer.Stop(ctx); err != nil {
					log.Warn("Failed to stop metrics server", zap.Error(err))
				}
			}
			if err := tracing.Shutdown(ctx); err != nil {
				log.Warn("Failed to flush traces", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
