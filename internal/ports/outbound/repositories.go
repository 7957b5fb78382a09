// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// RecipeCatalog is the local recipe catalog.
// Only catalog-imported recipes are ever returned by FindCandidates.
type RecipeCatalog interface {
	// Query operations
	FindCandidates(ctx context.Context, query CandidateQuery) ([]mealplan.Recipe, error)
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Recipe, error)

	// Import operations, idempotent by external ID
	ImportOrGetRecipe(ctx context.Context, payload ExternalRecipe) (mealplan.Recipe, error)
	AttachDietTag(ctx context.Context, recipeID uuid.UUID, dietName string) error
}

// CandidateQuery defines the local catalog filters for one slot
type CandidateQuery struct {
	DishTypes   []string
	Calories    *mealplan.CalorieWindow // nil disables the calorie filter
	DietID      int                     // 0 or balanced disables the diet filter
	Cuisines    []string                // lower-cased names; untagged recipes always match
	Intolerance mealplan.IntoleranceFlags
	ExcludeIDs  []uuid.UUID
	Limit       int
}

// PreferencesRepository loads stored dietary preferences
type PreferencesRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*mealplan.UserPreferences, error)
	Save(ctx context.Context, prefs *mealplan.UserPreferences) error
}

// MealPlanRepository persists generated plans
type MealPlanRepository interface {
	Save(ctx context.Context, userID uuid.UUID, plan mealplan.PlanStructure, status mealplan.PlanGenerationStatus) (*MealPlanRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*MealPlanRecord, error)
	FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*MealPlanRecord, error)

	// Meal item operations
	FindMealItem(ctx context.Context, itemID uuid.UUID) (*MealItemRecord, error)
	UpdateMealItemRecipe(ctx context.Context, itemID, recipeID uuid.UUID) error
}

// MealPlanRecord is a persisted plan
type MealPlanRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    mealplan.PlanGenerationStatus
	Items     []MealItemRecord
	CreatedAt time.Time
}

// MealItemRecord is one persisted (day, slot) assignment
type MealItemRecord struct {
	ID         uuid.UUID
	MealPlanID uuid.UUID
	UserID     uuid.UUID
	Day        int
	DayLabel   string
	Slot       mealplan.MealSlot
	MealType   string
	Recipe     mealplan.Recipe
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ErrCacheMiss is returned by CacheRepository.Get for absent keys
var ErrCacheMiss = errors.New("cache miss")
