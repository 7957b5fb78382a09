package gorm

import (
	"strings"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
)

// ExternalToModel converts an external catalog payload to a recipe model.
// Associations are attached separately.
func ExternalToModel(p outbound.ExternalRecipe) *RecipeModel {
	externalID := p.ExternalID
	return &RecipeModel{
		ExternalID:   &externalID,
		Title:        p.Title,
		ImageURL:     p.ImageURL,
		ImageType:    p.ImageType,
		ReadyMinutes: p.ReadyInMinutes,
		Servings:     p.Servings,
		Summary:      p.Summary,
		Calories:     p.Calories,
		Vegetarian:   p.Vegetarian,
		Vegan:        p.Vegan,
		GlutenFree:   p.GlutenFree,
		DairyFree:    p.DairyFree,
		LowFodmap:    p.LowFodmap,
		VeryHealthy:  p.VeryHealthy,
		Cheap:        p.Cheap,
		Sustainable:  p.Sustainable,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) mealplan.Recipe {
	r := mealplan.Recipe{
		ID:           model.ID,
		ExternalID:   model.ExternalID,
		Title:        model.Title,
		Calories:     model.Calories,
		Vegetarian:   model.Vegetarian,
		Vegan:        model.Vegan,
		GlutenFree:   model.GlutenFree,
		DairyFree:    model.DairyFree,
		LowFodmap:    model.LowFodmap,
		ImageURL:     model.ImageURL,
		ReadyMinutes: model.ReadyMinutes,
		Servings:     model.Servings,
		Summary:      model.Summary,
	}
	for _, d := range model.DishTypes {
		r.DishTypes = append(r.DishTypes, d.Name)
	}
	for _, c := range model.Cuisines {
		r.Cuisines = append(r.Cuisines, c.Name)
	}
	for _, d := range model.Diets {
		r.Diets = append(r.Diets, d.Name)
	}
	return r
}

// ModelToPreferences converts a GORM model to domain preferences
func ModelToPreferences(model *UserPreferencesModel) *mealplan.UserPreferences {
	prefs := &mealplan.UserPreferences{
		UserID:       model.UserID,
		CaloriesGoal: model.CaloriesGoal,
		MaxPlanDays:  model.MaxPlanDays,
	}
	if model.Diet != nil {
		prefs.Diet = &mealplan.DietType{ID: int(model.Diet.ID), Name: model.Diet.Name}
	}
	for _, i := range model.Intolerances {
		prefs.Intolerances = append(prefs.Intolerances, mealplan.Intolerance{ID: int(i.ID), Name: i.Name})
	}
	for _, c := range model.Cuisines {
		prefs.Cuisines = append(prefs.Cuisines, mealplan.Cuisine{ID: int(c.ID), Name: c.Name})
	}
	return prefs
}

// ModelToMealPlan converts a GORM plan with preloaded items
func ModelToMealPlan(model *MealPlanModel) *outbound.MealPlanRecord {
	rec := &outbound.MealPlanRecord{
		ID:        model.ID,
		UserID:    model.UserID,
		Status:    mealplan.PlanGenerationStatus(model.Status),
		CreatedAt: model.CreatedAt,
		Items:     make([]outbound.MealItemRecord, 0, len(model.Items)),
	}
	for i := range model.Items {
		rec.Items = append(rec.Items, ModelToMealItem(&model.Items[i], model.UserID))
	}
	return rec
}

// ModelToMealItem converts a GORM meal item; userID comes from the owning plan
func ModelToMealItem(model *MealItemModel, userID uuid.UUID) outbound.MealItemRecord {
	return outbound.MealItemRecord{
		ID:         model.ID,
		MealPlanID: model.MealPlanID,
		UserID:     userID,
		Day:        model.Day,
		DayLabel:   model.DayLabel,
		Slot:       mealplan.MealSlot(model.Slot),
		MealType:   model.MealType,
		Recipe:     ModelToRecipe(&model.Recipe),
	}
}

// DayLabel names plan day n (0-based) relative to the plan's creation date
func DayLabel(start time.Time, day int) string {
	return strings.ToLower(start.AddDate(0, 0, day).Weekday().String())
}
