package mealplan

import (
	"context"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSuggestionLimit is the number of replacement suggestions returned
const DefaultSuggestionLimit = 5

// Suggester proposes replacement recipes for a single slot
type Suggester struct {
	sourcer      *RecipeSourcer
	defaultLimit int
	logger       *zap.Logger
}

// NewSuggester creates a new suggester
func NewSuggester(sourcer *RecipeSourcer, logger *zap.Logger) *Suggester {
	return &Suggester{
		sourcer:      sourcer,
		defaultLimit: DefaultSuggestionLimit,
		logger:       logger.Named("meal-suggester"),
	}
}

// WithDefaultLimit sets the number of suggestions returned when the caller
// asks for none. Non-positive values keep the current default.
func (s *Suggester) WithDefaultLimit(limit int) *Suggester {
	if limit > 0 {
		s.defaultLimit = limit
	}
	return s
}

// Suggest returns up to limit recipes for slot, never including exclude.
// The local shortfall is topped up by a single external search.
func (s *Suggester) Suggest(ctx context.Context, prefs mealplan.UserPreferences, slot mealplan.MealSlot, exclude *uuid.UUID, limit int) ([]mealplan.Recipe, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	excluded := mealplan.NewIDSet()
	if exclude != nil {
		excluded.Add(*exclude)
	}

	target := mealplan.AllocateCalories(prefs.EffectiveCaloriesGoal())[slot]

	s.logger.Debug("Suggesting replacements",
		zap.String("user_id", prefs.UserID.String()),
		zap.String("slot", slot.String()),
		zap.Int("target_calories", target),
		zap.Int("limit", limit),
	)

	return s.sourcer.Source(ctx, SourceRequest{
		Criteria:            NewCriteria(prefs),
		Slot:                slot,
		TargetCalories:      target,
		Exclude:             excluded,
		Limit:               limit,
		MaxExternalAttempts: 1,
	})
}
