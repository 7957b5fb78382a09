package gorm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dishTypeFilter = "EXISTS (SELECT 1 FROM recipe_dish_types rdt JOIN dish_types dt ON dt.id = rdt.dish_type_id " +
		"WHERE rdt.recipe_id = recipes.id AND LOWER(dt.name) IN ?)"
	dietTagFilter = "EXISTS (SELECT 1 FROM recipe_diet_types rd WHERE rd.recipe_id = recipes.id AND rd.diet_type_id = ?)"
	cuisineFilter = "(NOT EXISTS (SELECT 1 FROM recipe_cuisines rc WHERE rc.recipe_id = recipes.id) OR " +
		"EXISTS (SELECT 1 FROM recipe_cuisines rc JOIN cuisines c ON c.id = rc.cuisine_id " +
		"WHERE rc.recipe_id = recipes.id AND LOWER(c.name) IN ?))"
)

// dietFlagFallbacks lists the boolean columns that satisfy a diet when the
// recipe carries no explicit diet tag
var dietFlagFallbacks = map[int][]string{
	mealplan.DietVegetarianID: {"vegetarian", "vegan"},
	mealplan.DietVeganID:      {"vegan"},
	mealplan.DietGlutenFreeID: {"gluten_free"},
	mealplan.DietDairyFreeID:  {"dairy_free"},
	mealplan.DietLowFodmapID:  {"low_fodmap"},
}

// RecipeRepository implements the local recipe catalog using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe catalog
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ outbound.RecipeCatalog = (*RecipeRepository)(nil)

func (r *RecipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("DishTypes").
		Preload("Cuisines").
		Preload("Diets")
}

// FindCandidates returns catalog-imported recipes matching the query.
// User-authored recipes are never returned.
func (r *RecipeRepository) FindCandidates(ctx context.Context, query outbound.CandidateQuery) ([]mealplan.Recipe, error) {
	q := r.preloaded(ctx).Model(&RecipeModel{}).
		Where("recipes.external_id IS NOT NULL")

	if len(query.DishTypes) > 0 {
		q = q.Where(dishTypeFilter, lowerAll(query.DishTypes))
	}

	if query.Calories != nil {
		q = q.Where("recipes.calories BETWEEN ? AND ?", query.Calories.Min, query.Calories.Max)
	}

	if query.DietID != 0 && query.DietID != mealplan.DietBalancedID {
		clauses := []string{dietTagFilter}
		args := []interface{}{query.DietID}
		for _, column := range dietFlagFallbacks[query.DietID] {
			clauses = append(clauses, "recipes."+column+" = ?")
			args = append(args, true)
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	if len(query.Cuisines) > 0 {
		q = q.Where(cuisineFilter, lowerAll(query.Cuisines))
	}

	if query.Intolerance.GlutenFree {
		q = q.Where("recipes.gluten_free = ?", true)
	}
	if query.Intolerance.DairyFree {
		q = q.Where("recipes.dairy_free = ?", true)
	}

	if len(query.ExcludeIDs) > 0 {
		q = q.Where("recipes.id NOT IN ?", query.ExcludeIDs)
	}

	// random order so the limit samples the whole matching set
	q = q.Order("RANDOM()")
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var models []RecipeModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	recipes := make([]mealplan.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, ModelToRecipe(&models[i]))
	}
	return recipes, nil
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Recipe, error) {
	var model RecipeModel
	err := r.preloaded(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	recipe := ModelToRecipe(&model)
	return &recipe, nil
}

// ImportOrGetRecipe stores an external recipe unless one with the same
// external ID exists, and returns the stored row either way. Concurrent
// imports of the same payload resolve to a single row.
func (r *RecipeRepository) ImportOrGetRecipe(ctx context.Context, payload outbound.ExternalRecipe) (mealplan.Recipe, error) {
	existing, err := r.findByExternalID(ctx, payload.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, outbound.ErrNotFound) {
		return mealplan.Recipe{}, err
	}

	model := ExternalToModel(payload)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// a concurrent import won; its associations are authoritative
			return nil
		}
		return attachLabels(tx, model, payload)
	})
	if err != nil {
		return mealplan.Recipe{}, fmt.Errorf("import recipe %d: %w", payload.ExternalID, err)
	}

	return r.findByExternalID(ctx, payload.ExternalID)
}

// AttachDietTag tags a recipe with the named diet, creating the diet if needed.
// Attaching an existing tag is a no-op.
func (r *RecipeRepository) AttachDietTag(ctx context.Context, recipeID uuid.UUID, dietName string) error {
	name := strings.TrimSpace(dietName)
	if name == "" {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := RecipeModel{ID: recipeID}
		if err := tx.Select("id").First(&model, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return outbound.ErrNotFound
			}
			return err
		}
		diet, err := findOrCreateDiet(tx, name)
		if err != nil {
			return err
		}
		return tx.Model(&model).Association("Diets").Append(&diet)
	})
}

func (r *RecipeRepository) findByExternalID(ctx context.Context, externalID int64) (mealplan.Recipe, error) {
	var model RecipeModel
	err := r.preloaded(ctx).First(&model, "external_id = ?", externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return mealplan.Recipe{}, outbound.ErrNotFound
		}
		return mealplan.Recipe{}, err
	}
	return ModelToRecipe(&model), nil
}

func attachLabels(tx *gorm.DB, model *RecipeModel, payload outbound.ExternalRecipe) error {
	dishTypes, err := findOrCreateNamed(tx, lowerAll(payload.DishTypes), func(name string) DishTypeModel {
		return DishTypeModel{Name: name}
	})
	if err != nil {
		return fmt.Errorf("dish types: %w", err)
	}
	if len(dishTypes) > 0 {
		if err := tx.Model(model).Association("DishTypes").Append(dishTypes); err != nil {
			return err
		}
	}

	cuisines, err := findOrCreateNamed(tx, payload.Cuisines, func(name string) CuisineModel {
		return CuisineModel{Name: name}
	})
	if err != nil {
		return fmt.Errorf("cuisines: %w", err)
	}
	if len(cuisines) > 0 {
		if err := tx.Model(model).Association("Cuisines").Append(cuisines); err != nil {
			return err
		}
	}

	var diets []DietTypeModel
	for _, name := range mealplan.TranslateDietNames(payload.Diets) {
		diet, err := findOrCreateDiet(tx, name)
		if err != nil {
			return fmt.Errorf("diets: %w", err)
		}
		diets = append(diets, diet)
	}
	if len(diets) > 0 {
		if err := tx.Model(model).Association("Diets").Append(diets); err != nil {
			return err
		}
	}
	return nil
}

// findOrCreateDiet matches diet names case-insensitively so seeded diets are reused
func findOrCreateDiet(tx *gorm.DB, name string) (DietTypeModel, error) {
	var diet DietTypeModel
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&diet).Error
	if err == nil {
		return diet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return diet, err
	}
	diet = DietTypeModel{Name: name}
	if err := tx.Create(&diet).Error; err != nil {
		return diet, err
	}
	return diet, nil
}

// findOrCreateNamed resolves label rows by case-insensitive name, creating missing ones
func findOrCreateNamed[T any](tx *gorm.DB, names []string, build func(name string) T) ([]T, error) {
	out := make([]T, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var row T
		if err := tx.Where("LOWER(name) = ?", key).Attrs(build(name)).FirstOrCreate(&row).Error; err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
