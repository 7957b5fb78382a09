package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRecipeCatalog provides a mock implementation of RecipeCatalog
type MockRecipeCatalog struct {
	mock.Mock
}

// FindCandidates returns the configured candidates, or the result of a
// func(outbound.CandidateQuery) []mealplan.Recipe return value
func (m *MockRecipeCatalog) FindCandidates(ctx context.Context, query outbound.CandidateQuery) ([]mealplan.Recipe, error) {
	args := m.Called(ctx, query)
	if fn, ok := args.Get(0).(func(outbound.CandidateQuery) []mealplan.Recipe); ok {
		return fn(query), args.Error(1)
	}
	recipes, _ := args.Get(0).([]mealplan.Recipe)
	return recipes, args.Error(1)
}

// FindByID returns the configured recipe
func (m *MockRecipeCatalog) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.Recipe), nil
}

// ImportOrGetRecipe returns the configured recipe, or the result of a
// func(outbound.ExternalRecipe) mealplan.Recipe return value
func (m *MockRecipeCatalog) ImportOrGetRecipe(ctx context.Context, payload outbound.ExternalRecipe) (mealplan.Recipe, error) {
	args := m.Called(ctx, payload)
	if fn, ok := args.Get(0).(func(outbound.ExternalRecipe) mealplan.Recipe); ok {
		return fn(payload), args.Error(1)
	}
	recipe, _ := args.Get(0).(mealplan.Recipe)
	return recipe, args.Error(1)
}

// AttachDietTag records the call
func (m *MockRecipeCatalog) AttachDietTag(ctx context.Context, recipeID uuid.UUID, dietName string) error {
	return m.Called(ctx, recipeID, dietName).Error(0)
}

// MockExternalCatalog provides a mock implementation of ExternalRecipeCatalog
type MockExternalCatalog struct {
	mock.Mock
}

// Search returns the configured result
func (m *MockExternalCatalog) Search(ctx context.Context, search outbound.ExternalSearch) (outbound.ExternalSearchResult, error) {
	args := m.Called(ctx, search)
	result, _ := args.Get(0).(outbound.ExternalSearchResult)
	return result, args.Error(1)
}

// MockPreferencesRepository provides a mock implementation of PreferencesRepository
type MockPreferencesRepository struct {
	mock.Mock
}

// FindByUserID returns the configured preferences
func (m *MockPreferencesRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*mealplan.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.UserPreferences), nil
}

// Save records the call
func (m *MockPreferencesRepository) Save(ctx context.Context, prefs *mealplan.UserPreferences) error {
	return m.Called(ctx, prefs).Error(0)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

// Save returns the configured record
func (m *MockMealPlanRepository) Save(ctx context.Context, userID uuid.UUID, plan mealplan.PlanStructure, status mealplan.PlanGenerationStatus) (*outbound.MealPlanRecord, error) {
	args := m.Called(ctx, userID, plan, status)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MealPlanRecord), nil
}

// FindByID returns the configured record
func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*outbound.MealPlanRecord, error) {
	args := m.Called(ctx, id)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MealPlanRecord), nil
}

// FindLatestByUserID returns the configured record
func (m *MockMealPlanRepository) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*outbound.MealPlanRecord, error) {
	args := m.Called(ctx, userID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MealPlanRecord), nil
}

// FindMealItem returns the configured item
func (m *MockMealPlanRepository) FindMealItem(ctx context.Context, itemID uuid.UUID) (*outbound.MealItemRecord, error) {
	args := m.Called(ctx, itemID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MealItemRecord), nil
}

// UpdateMealItemRecipe records the call
func (m *MockMealPlanRepository) UpdateMealItemRecipe(ctx context.Context, itemID, recipeID uuid.UUID) error {
	return m.Called(ctx, itemID, recipeID).Error(0)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

// Get returns the configured value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

// Set records the call
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// Delete records the call
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// Exists returns the configured answer
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

var (
	_ outbound.RecipeCatalog         = (*MockRecipeCatalog)(nil)
	_ outbound.ExternalRecipeCatalog = (*MockExternalCatalog)(nil)
	_ outbound.PreferencesRepository = (*MockPreferencesRepository)(nil)
	_ outbound.MealPlanRepository    = (*MockMealPlanRepository)(nil)
	_ outbound.CacheRepository       = (*MockCacheRepository)(nil)
)
