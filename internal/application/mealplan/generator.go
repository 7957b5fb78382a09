package mealplan

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Generation outcomes reported to metrics
const (
	OutcomeFullSuccess         = "full_success"
	OutcomePartialSuccess      = "partial_success"
	OutcomeInsufficientVariety = "insufficient_variety"
	OutcomeTooStrict           = "too_strict"
	OutcomeError               = "error"
)

// Generator orchestrates a plan generation run:
// normalize preferences, allocate calories, source each slot, assemble days.
type Generator struct {
	sourcer   *RecipeSourcer
	assembler *mealplan.Assembler
	metrics   Metrics
	tracer    trace.Tracer
	logger    *zap.Logger
	now       func() time.Time
	attempts  int
}

// NewGenerator creates a new meal plan generator
func NewGenerator(sourcer *RecipeSourcer, assembler *mealplan.Assembler, metrics Metrics, logger *zap.Logger) *Generator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Generator{
		sourcer:   sourcer,
		assembler: assembler,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
		logger:    logger.Named("meal-plan-generator"),
		now:       time.Now,
		attempts:  DefaultExternalAttempts,
	}
}

// WithExternalAttempts caps the external relaxation ladder per slot
func (g *Generator) WithExternalAttempts(n int) *Generator {
	if n > 0 {
		g.attempts = n
	}
	return g
}

// Generate produces a plan of up to requestedDays days. Only
// mealplan.ErrInsufficientRecipeVariety and mealplan.ErrPreferencesTooStrict
// (or local catalog failures) are returned as errors; any other shortfall
// yields StatusPartialSuccess.
func (g *Generator) Generate(ctx context.Context, prefs mealplan.UserPreferences, requestedDays int) (mealplan.PlanStructure, mealplan.PlanGenerationStatus, error) {
	if requestedDays < 1 {
		requestedDays = mealplan.DefaultPlanDays
	}
	started := g.now()

	ctx, span := g.tracer.Start(ctx, "Generator.Generate", trace.WithAttributes(
		attribute.String("user.id", prefs.UserID.String()),
		attribute.Int("meal_plan.requested_days", requestedDays),
	))
	defer span.End()
	log := logger.WithTrace(ctx, g.logger)

	goal := prefs.EffectiveCaloriesGoal()
	criteria := NewCriteria(prefs)
	targets := mealplan.AllocateCalories(goal)

	log.Info("Generating meal plan",
		zap.String("user_id", prefs.UserID.String()),
		zap.Float64("calories_goal", goal),
		zap.Int("requested_days", requestedDays),
		zap.String("diet", criteria.Profile.Diet),
		zap.String("intolerances", criteria.Profile.Intolerances),
		zap.String("cuisines", criteria.Profile.Cuisines),
		zap.Bool("complex_intolerances", criteria.ComplexIntolerances),
	)

	pools, err := g.sourcePools(ctx, criteria, targets, requestedDays)
	if err != nil {
		g.fail(log, span, err, started)
		return nil, "", err
	}

	plan, status, err := g.assembler.Assemble(pools, requestedDays)
	if err != nil {
		g.fail(log, span, err, started)
		return nil, "", err
	}

	outcome := OutcomeFullSuccess
	if status == mealplan.StatusPartialSuccess {
		outcome = OutcomePartialSuccess
	}
	g.metrics.GenerationCompleted(outcome, plan.Days(), g.now().Sub(started))
	span.SetAttributes(
		attribute.String("meal_plan.status", string(status)),
		attribute.Int("meal_plan.days", plan.Days()),
	)

	log.Info("Meal plan generated",
		zap.String("user_id", prefs.UserID.String()),
		zap.String("status", string(status)),
		zap.Int("days", plan.Days()),
	)

	return plan, status, nil
}

// sourcePools fills each slot in order. Lunch picks are excluded from dinner
// sourcing so the two pools start disjoint.
func (g *Generator) sourcePools(ctx context.Context, criteria Criteria, targets map[mealplan.MealSlot]int, days int) (mealplan.Pools, error) {
	pools := make(mealplan.Pools, len(mealplan.Slots))
	exclude := mealplan.NewIDSet()

	for _, slot := range mealplan.Slots {
		recipes, err := g.sourcer.Source(ctx, SourceRequest{
			Criteria:       criteria,
			Slot:           slot,
			TargetCalories: targets[slot],
			Exclude:        exclude.Clone(),
			Limit:          days,

			MaxExternalAttempts: g.attempts,
		})
		if err != nil {
			return nil, err
		}
		if len(recipes) == 0 {
			return nil, mealplan.NewInsufficientVarietyError(slot)
		}

		pools[slot] = recipes
		if slot == mealplan.SlotLunch {
			for _, r := range recipes {
				exclude.Add(r.ID)
			}
		}
	}

	return pools, nil
}

func (g *Generator) fail(log *zap.Logger, span trace.Span, err error, started time.Time) {
	outcome := OutcomeError
	switch {
	case errors.Is(err, mealplan.ErrInsufficientRecipeVariety):
		outcome = OutcomeInsufficientVariety
	case errors.Is(err, mealplan.ErrPreferencesTooStrict):
		outcome = OutcomeTooStrict
	}
	g.metrics.GenerationCompleted(outcome, 0, g.now().Sub(started))

	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	log.Warn("Meal plan generation failed", zap.String("outcome", outcome), zap.Error(err))
}
