package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.MealPlan.DefaultDays)
	assert.Equal(t, 7, cfg.MealPlan.MaxDays)
	assert.Equal(t, 2000.0, cfg.MealPlan.DefaultCaloriesGoal)
	assert.Equal(t, 3, cfg.MealPlan.ExternalAttempts)
	assert.Equal(t, 5, cfg.MealPlan.SuggestionLimit)
	assert.Equal(t, "https://api.spoonacular.com", cfg.Spoonacular.BaseURL)
	assert.Equal(t, 6*time.Hour, cfg.Spoonacular.CacheTTL)
	assert.Equal(t, uint64(3), cfg.Spoonacular.MaxRetries)
	assert.False(t, cfg.RedisEnabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: staging
database:
  driver: postgres
  host: db.internal
  database: plans
  username: planner
  read_replicas: [replica-1, replica-2]
redis:
  host: cache.internal
spoonacular:
  api_key: secret
  timeout: 3s
meal_plan:
  max_days: 6
`)
	t.Setenv("MEALPLANNER_MEAL_PLAN_DEFAULT_DAYS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"replica-1", "replica-2"}, cfg.Database.ReadReplicas)
	assert.Equal(t, 4, cfg.MealPlan.DefaultDays)
	assert.Equal(t, 6, cfg.MealPlan.MaxDays)
	assert.Equal(t, 3*time.Second, cfg.Spoonacular.Timeout)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t,
		"host=db.internal port=5432 user=planner password= dbname=plans sslmode=disable",
		cfg.GetDSN(cfg.Database.Host))
}

func TestLoadRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "UnknownDriver", body: "database:\n  driver: mysql\n"},
		{name: "TooManyDays", body: "meal_plan:\n  max_days: 8\n"},
		{name: "DefaultAboveMax", body: "meal_plan:\n  max_days: 3\n  default_days: 4\n"},
		{name: "ProductionWithoutKey", body: "app:\n  environment: production\n"},
		{name: "SuggestionLimitTooLarge", body: "meal_plan:\n  suggestion_limit: 21\n"},
		{name: "BadMetricsPort", body: "monitoring:\n  enable_metrics: true\n  metrics_port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MEALPLANNER_SPOONACULAR_API_KEY"
	t.Setenv(key, "placeholder")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	t.Setenv(key, "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key), "existing variables win")

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
