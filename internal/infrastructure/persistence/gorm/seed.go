package gorm

import (
	"context"
	"fmt"
	"sort"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Diets seeded with stable identifiers. Preferences and diet filters refer
// to these IDs.
var referenceDiets = []DietTypeModel{
	{ID: mealplan.DietBalancedID, Name: "Balanced"},
	{ID: mealplan.DietVegetarianID, Name: "Vegetarian"},
	{ID: mealplan.DietVeganID, Name: "Vegan"},
	{ID: mealplan.DietGlutenFreeID, Name: "Gluten Free"},
	{ID: mealplan.DietDairyFreeID, Name: "Dairy Free"},
	{ID: 6, Name: "Ketogenic"},
	{ID: 7, Name: "Lacto-Vegetarian"},
	{ID: 8, Name: "Ovo-Vegetarian"},
	{ID: 9, Name: "Pescetarian"},
	{ID: 10, Name: "Paleo"},
	{ID: 11, Name: "Primal"},
	{ID: mealplan.DietLowFodmapID, Name: "Low FODMAP"},
	{ID: 13, Name: "Whole30"},
}

var referenceIntolerances = []string{
	"dairy", "egg", "gluten", "grain", "peanut", "seafood",
	"sesame", "shellfish", "soy", "sulfite", "tree nut", "wheat",
}

// SeedReferenceData inserts diets, intolerances and dish types. It is safe
// to run on every start.
func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&referenceDiets).Error; err != nil {
			return fmt.Errorf("seed diet types: %w", err)
		}
		// explicit IDs do not advance the postgres sequence
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT setval(pg_get_serial_sequence('diet_types', 'id'), (SELECT MAX(id) FROM diet_types))").Error; err != nil {
				return fmt.Errorf("sync diet type sequence: %w", err)
			}
		}

		intolerances := make([]IntoleranceModel, 0, len(referenceIntolerances))
		for _, name := range referenceIntolerances {
			intolerances = append(intolerances, IntoleranceModel{Name: name})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&intolerances).Error; err != nil {
			return fmt.Errorf("seed intolerances: %w", err)
		}

		dishTypes := make([]DishTypeModel, 0)
		for _, name := range referenceDishTypes() {
			dishTypes = append(dishTypes, DishTypeModel{Name: name})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dishTypes).Error; err != nil {
			return fmt.Errorf("seed dish types: %w", err)
		}
		return nil
	})
}

func referenceDishTypes() []string {
	set := make(map[string]struct{})
	for _, cfg := range mealplan.MealTypeDishTypes {
		for _, name := range cfg.LocalDishTypes {
			set[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
