// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/google/uuid"
)

// MealPlanService defines the meal plan use cases
type MealPlanService interface {
	// Commands
	GenerateMealPlan(ctx context.Context, cmd GenerateMealPlanCommand) (*MealPlanDTO, error)
	ReplaceMealItem(ctx context.Context, cmd ReplaceMealItemCommand) (*MealItemDTO, error)

	// Queries
	GetLatestMealPlan(ctx context.Context, userID uuid.UUID) (*MealPlanDTO, error)
	SuggestReplacements(ctx context.Context, cmd SuggestReplacementsCommand) ([]RecipeSummaryDTO, error)
}

// GenerateMealPlanCommand requests a new plan for a user
type GenerateMealPlanCommand struct {
	UserID uuid.UUID `validate:"required"`
	Days   int       `validate:"omitempty,min=1,max=7"` // 0 uses the configured default
}

// SuggestReplacementsCommand requests alternatives for one slot.
// Either MealItemID or Slot must be set; Slot takes precedence.
type SuggestReplacementsCommand struct {
	UserID     uuid.UUID `validate:"required"`
	MealItemID *uuid.UUID
	Slot       *mealplan.MealSlot
	Limit      int `validate:"omitempty,min=1,max=20"`
}

// ReplaceMealItemCommand swaps the recipe of a persisted meal item
type ReplaceMealItemCommand struct {
	UserID     uuid.UUID `validate:"required"`
	MealItemID uuid.UUID `validate:"required"`
	RecipeID   uuid.UUID `validate:"required"`
}

// DTOs for responses

// MealPlanDTO is the client view of a plan
type MealPlanDTO struct {
	ID        uuid.UUID                     `json:"id"`
	Status    mealplan.PlanGenerationStatus `json:"status"`
	Days      []DayDTO                      `json:"days"`
	CreatedAt time.Time                     `json:"created_at"`
}

// DayDTO groups the meals of one day
type DayDTO struct {
	Day   int           `json:"day"`
	Label string        `json:"label"`
	Meals []MealItemDTO `json:"meals"`
}

// MealItemDTO is one planned meal
type MealItemDTO struct {
	ID       uuid.UUID        `json:"meal_item_id"`
	Slot     int              `json:"slot"`
	MealType string           `json:"meal_type"`
	Recipe   RecipeSummaryDTO `json:"recipe"`
}

// RecipeSummaryDTO is the short recipe representation
type RecipeSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	ExternalID   *int64    `json:"external_id,omitempty"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url,omitempty"`
	ReadyMinutes int       `json:"ready_min,omitempty"`
	Calories     *float64  `json:"calories,omitempty"`
	Servings     int       `json:"servings,omitempty"`
}
