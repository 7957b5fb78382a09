package mealplan

import (
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
)

// Recipe sources
const (
	SourceLocal    = "local"
	SourceExternal = "external"
)

// External attempt outcomes
const (
	OutcomeHit      = "hit"
	OutcomeEmpty    = "empty"
	OutcomeDegraded = "degraded"
)

// Metrics receives generation and sourcing observations
type Metrics interface {
	RecipesSourced(slot mealplan.MealSlot, source string, count int)
	ExternalAttempt(slot mealplan.MealSlot, attempt int, outcome string)
	GenerationCompleted(outcome string, days int, duration time.Duration)
}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) RecipesSourced(mealplan.MealSlot, string, int)  {}
func (NopMetrics) ExternalAttempt(mealplan.MealSlot, int, string) {}
func (NopMetrics) GenerationCompleted(string, int, time.Duration) {}
