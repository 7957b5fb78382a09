// Package mealplan provides the application layer for meal plan generation.
// It sources candidate recipes from the local and external catalogs and
// drives the domain assembler.
package mealplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName = "github.com/alchemorsel/mealplanner/internal/application/mealplan"

	// DefaultExternalAttempts is the number of progressively relaxed
	// external searches made for one slot.
	DefaultExternalAttempts = 3

	minLocalOverfetch = 20
	externalOverfetch = 2
)

// Criteria is the per-run view of the user's preferences used for sourcing
type Criteria struct {
	Profile             mealplan.QueryProfile
	DietID              int
	Cuisines            []string
	Intolerance         mealplan.IntoleranceFlags
	ComplexIntolerances bool
}

// NewCriteria derives sourcing criteria from stored preferences
func NewCriteria(prefs mealplan.UserPreferences) Criteria {
	c := Criteria{
		Profile:             mealplan.Normalize(prefs),
		Cuisines:            prefs.CuisineNames(),
		Intolerance:         mealplan.SimpleIntoleranceFlags(prefs),
		ComplexIntolerances: mealplan.HasComplexIntolerances(prefs),
	}
	if !prefs.Diet.IsBalanced() {
		c.DietID = prefs.Diet.ID
	}
	return c
}

// SourceRequest asks for up to Limit candidates for one slot
type SourceRequest struct {
	Criteria       Criteria
	Slot           mealplan.MealSlot
	TargetCalories int
	Exclude        mealplan.IDSet
	Limit          int

	// MaxExternalAttempts caps the relaxation ladder; 0 uses the default.
	MaxExternalAttempts int
}

// RecipeSourcer finds candidate recipes for a slot: local catalog first,
// then the external catalog with progressively relaxed filters.
type RecipeSourcer struct {
	catalog  outbound.RecipeCatalog
	external outbound.ExternalRecipeCatalog
	shuffler mealplan.Shuffler
	metrics  Metrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewRecipeSourcer creates a new recipe sourcer
func NewRecipeSourcer(
	catalog outbound.RecipeCatalog,
	external outbound.ExternalRecipeCatalog,
	shuffler mealplan.Shuffler,
	metrics Metrics,
	logger *zap.Logger,
) *RecipeSourcer {
	if shuffler == nil {
		shuffler = mealplan.NewLockedRand(0)
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &RecipeSourcer{
		catalog:  catalog,
		external: external,
		shuffler: shuffler,
		metrics:  metrics,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.Named("recipe-sourcer"),
	}
}

// candidateSet keeps unique recipes in insertion order
type candidateSet struct {
	exclude mealplan.IDSet
	seen    mealplan.IDSet
	recipes []mealplan.Recipe
}

func newCandidateSet(exclude mealplan.IDSet) *candidateSet {
	if exclude == nil {
		exclude = mealplan.NewIDSet()
	}
	return &candidateSet{exclude: exclude, seen: mealplan.NewIDSet()}
}

// add appends r unless it is excluded, already present or user-authored
func (c *candidateSet) add(r mealplan.Recipe) bool {
	if !r.IsCatalogRecipe() || c.exclude.Has(r.ID) || c.seen.Has(r.ID) {
		return false
	}
	c.seen.Add(r.ID)
	c.recipes = append(c.recipes, r)
	return true
}

func (c *candidateSet) len() int {
	return len(c.recipes)
}

// Source returns up to req.Limit unique candidates for the slot. External
// catalog failures only shrink the result; local catalog failures are returned.
func (s *RecipeSourcer) Source(ctx context.Context, req SourceRequest) ([]mealplan.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeSourcer.Source", trace.WithAttributes(
		attribute.String("meal.slot", req.Slot.String()),
		attribute.Int("meal.target_calories", req.TargetCalories),
		attribute.Int("meal.limit", req.Limit),
	))
	defer span.End()

	if req.Limit <= 0 {
		return nil, nil
	}

	window := mealplan.CalorieWindowFor(req.TargetCalories)
	found := newCandidateSet(req.Exclude)

	if req.Criteria.ComplexIntolerances {
		s.logger.Debug("Skipping local catalog, intolerances need external filtering",
			zap.String("slot", req.Slot.String()),
			zap.String("intolerances", req.Criteria.Profile.Intolerances),
		)
	} else {
		local, err := s.sourceLocal(ctx, req, window)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "local catalog query failed")
			return nil, err
		}
		for _, r := range local {
			if found.len() >= req.Limit {
				break
			}
			found.add(r)
		}
		s.metrics.RecipesSourced(req.Slot, SourceLocal, found.len())
	}

	if found.len() < req.Limit {
		before := found.len()
		if err := s.sourceExternal(ctx, req, window, found); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "importing external recipes failed")
			return nil, err
		}
		s.metrics.RecipesSourced(req.Slot, SourceExternal, found.len()-before)
	}

	span.SetAttributes(attribute.Int("meal.candidates", found.len()))
	s.logger.Debug("Sourced candidates",
		zap.String("slot", req.Slot.String()),
		zap.Int("target_calories", req.TargetCalories),
		zap.Int("found", found.len()),
		zap.Int("limit", req.Limit),
	)

	return found.recipes, nil
}

func (s *RecipeSourcer) sourceLocal(ctx context.Context, req SourceRequest, window mealplan.CalorieWindow) ([]mealplan.Recipe, error) {
	query := outbound.CandidateQuery{
		DishTypes:   req.Slot.DishTypes().LocalDishTypes,
		Calories:    &window,
		DietID:      req.Criteria.DietID,
		Cuisines:    req.Criteria.Cuisines,
		Intolerance: req.Criteria.Intolerance,
		ExcludeIDs:  req.Exclude.Slice(),
		Limit:       max(req.Limit*2, minLocalOverfetch),
	}

	recipes, err := s.catalog.FindCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find local candidates for %s: %w", req.Slot, err)
	}

	mealplan.ShuffleRecipes(s.shuffler, recipes)
	return recipes, nil
}

// sourceExternal walks the relaxation ladder until found holds req.Limit
// recipes or the attempts run out.
func (s *RecipeSourcer) sourceExternal(ctx context.Context, req SourceRequest, window mealplan.CalorieWindow, found *candidateSet) error {
	attempts := req.MaxExternalAttempts
	if attempts <= 0 || attempts > DefaultExternalAttempts {
		attempts = DefaultExternalAttempts
	}

	for attempt := 1; attempt <= attempts && found.len() < req.Limit; attempt++ {
		search := s.buildSearch(req, window, attempt, req.Limit-found.len())

		results, err := s.searchExternal(ctx, search)
		if err != nil {
			s.metrics.ExternalAttempt(req.Slot, attempt, OutcomeDegraded)
			s.logger.Warn("External catalog degraded, treating attempt as empty",
				zap.String("slot", req.Slot.String()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		imported, err := s.importResults(ctx, results, req.Criteria.Profile.Diet)
		if err != nil {
			return err
		}

		added := 0
		for _, r := range imported {
			if found.len() >= req.Limit {
				break
			}
			if found.add(r) {
				added++
			}
		}

		outcome := OutcomeEmpty
		if added > 0 {
			outcome = OutcomeHit
		}
		s.metrics.ExternalAttempt(req.Slot, attempt, outcome)
		s.logger.Debug("External catalog attempt",
			zap.String("slot", req.Slot.String()),
			zap.Int("attempt", attempt),
			zap.Int("results", len(results)),
			zap.Int("added", added),
		)
	}

	return nil
}

// buildSearch returns the parameters for the given attempt. Attempt 1 uses
// the calorie window, attempt 2 drops it, attempt 3 also drops cuisines.
func (s *RecipeSourcer) buildSearch(req SourceRequest, window mealplan.CalorieWindow, attempt, shortfall int) outbound.ExternalSearch {
	search := outbound.ExternalSearch{
		DishType:     req.Slot.DishTypes().ExternalDishType,
		Diet:         req.Criteria.Profile.Diet,
		Intolerances: req.Criteria.Profile.Intolerances,
		Cuisine:      req.Criteria.Profile.Cuisines,
		Count:        shortfall * externalOverfetch,
		Sort:         "random",
	}
	if attempt == 1 {
		minCalories, maxCalories := window.Min, window.Max
		search.MinCalories = &minCalories
		search.MaxCalories = &maxCalories
	}
	if attempt >= 3 {
		search.Cuisine = ""
	}
	return search
}

// searchExternal performs the network call only; it never touches the catalog
func (s *RecipeSourcer) searchExternal(ctx context.Context, search outbound.ExternalSearch) ([]outbound.ExternalRecipe, error) {
	if s.external == nil {
		return nil, fmt.Errorf("no external catalog configured")
	}
	result, err := s.external.Search(ctx, search)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// importResults upserts external recipes into the local catalog and tags them
// with the queried diet.
func (s *RecipeSourcer) importResults(ctx context.Context, results []outbound.ExternalRecipe, diet string) ([]mealplan.Recipe, error) {
	imported := make([]mealplan.Recipe, 0, len(results))
	for _, payload := range results {
		if payload.ExternalID == 0 {
			continue
		}

		r, err := s.catalog.ImportOrGetRecipe(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("import external recipe %d: %w", payload.ExternalID, err)
		}

		if diet != "" && !hasDiet(r, diet) {
			if err := s.catalog.AttachDietTag(ctx, r.ID, diet); err != nil {
				return nil, fmt.Errorf("attach diet %q to recipe %s: %w", diet, r.ID, err)
			}
			r.Diets = append(r.Diets, diet)
		}

		imported = append(imported, r)
	}
	return imported, nil
}

func hasDiet(r mealplan.Recipe, diet string) bool {
	for _, d := range r.Diets {
		if strings.EqualFold(d, diet) {
			return true
		}
	}
	return false
}
