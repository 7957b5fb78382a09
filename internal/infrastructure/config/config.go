// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	MealPlan    MealPlanConfig    `mapstructure:"meal_plan"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver             string        `mapstructure:"driver"` // sqlite or postgres
	Path               string        `mapstructure:"path"`   // sqlite file, empty for in-memory
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Database           string        `mapstructure:"database"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	ReadReplicas       []string      `mapstructure:"read_replicas"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel           string        `mapstructure:"log_level"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
}

// RedisConfig contains Redis configuration. An empty host disables Redis
// and the in-memory cache is used instead.
type RedisConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	Database      int           `mapstructure:"database"`
	MaxRetries    int           `mapstructure:"max_retries"`
	MinIdleConns  int           `mapstructure:"min_idle_conns"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	PoolSize      int           `mapstructure:"pool_size"`
	EnableCluster bool          `mapstructure:"enable_cluster"`
	ClusterNodes  []string      `mapstructure:"cluster_nodes"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// SpoonacularConfig configures the external recipe catalog client
type SpoonacularConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        uint64        `mapstructure:"max_retries"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// MealPlanConfig contains generation settings
type MealPlanConfig struct {
	DefaultDays         int     `mapstructure:"default_days"`
	MaxDays             int     `mapstructure:"max_days"`
	DefaultCaloriesGoal float64 `mapstructure:"default_calories_goal"`
	ExternalAttempts    int     `mapstructure:"external_attempts"`
	SuggestionLimit     int     `mapstructure:"suggestion_limit"`
	Seed                int64   `mapstructure:"seed"` // 0 seeds from the clock
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool    `mapstructure:"enable_metrics"`
	MetricsPort   int     `mapstructure:"metrics_port"`
	EnableTracing bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint  string  `mapstructure:"otlp_endpoint"`
	SamplingRate  float64 `mapstructure:"sampling_rate"`
}

// LoadDotEnv exports the variables of an env file without overriding
// variables already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mealplanner")
	}

	// Enable environment variable override
	v.SetEnvPrefix("MEALPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "mealplanner")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "mealplanner.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "mealplanner")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_query_threshold", "200ms")
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.key_prefix", "mealplanner:")

	// External catalog defaults
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.timeout", "10s")
	v.SetDefault("spoonacular.requests_per_second", 1.0)
	v.SetDefault("spoonacular.burst", 2)
	v.SetDefault("spoonacular.max_retries", 3)
	v.SetDefault("spoonacular.max_backoff", "8s")
	v.SetDefault("spoonacular.cache_ttl", "6h")

	// Generation defaults
	v.SetDefault("meal_plan.default_days", 5)
	v.SetDefault("meal_plan.max_days", 7)
	v.SetDefault("meal_plan.default_calories_goal", 2000.0)
	v.SetDefault("meal_plan.external_attempts", 3)
	v.SetDefault("meal_plan.suggestion_limit", 5)

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_port", 9090)
	v.SetDefault("monitoring.sampling_rate", 0.1)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Database == "" {
			return fmt.Errorf("database.database is required")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.MealPlan.MaxDays < 1 || c.MealPlan.MaxDays > 7 {
		return fmt.Errorf("meal_plan.max_days must be between 1 and 7")
	}
	if c.MealPlan.DefaultDays < 1 || c.MealPlan.DefaultDays > c.MealPlan.MaxDays {
		return fmt.Errorf("meal_plan.default_days must be between 1 and meal_plan.max_days")
	}
	if c.MealPlan.ExternalAttempts < 1 {
		return fmt.Errorf("meal_plan.external_attempts must be positive")
	}
	if c.MealPlan.SuggestionLimit < 1 || c.MealPlan.SuggestionLimit > 20 {
		return fmt.Errorf("meal_plan.suggestion_limit must be between 1 and 20")
	}

	if c.Spoonacular.APIKey == "" && c.IsProduction() {
		return fmt.Errorf("spoonacular.api_key is required in production")
	}
	if c.Spoonacular.RequestsPerSecond <= 0 {
		return fmt.Errorf("spoonacular.requests_per_second must be positive")
	}

	if c.Monitoring.EnableMetrics && (c.Monitoring.MetricsPort < 1 || c.Monitoring.MetricsPort > 65535) {
		return fmt.Errorf("monitoring.metrics_port must be between 1 and 65535")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the postgres connection string for host
func (c *Config) GetDSN(host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// RedisEnabled reports whether a Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != "" || (c.Redis.EnableCluster && len(c.Redis.ClusterNodes) > 0)
}
