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
)

// PreferencesRepository implements the preferences repository interface using GORM
type PreferencesRepository struct {
	db *gorm.DB
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(db *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

var _ outbound.PreferencesRepository = (*PreferencesRepository)(nil)

// FindByUserID loads the preferences of a user
func (r *PreferencesRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*mealplan.UserPreferences, error) {
	var model UserPreferencesModel
	err := r.db.WithContext(ctx).
		Preload("Diet").
		Preload("Intolerances").
		Preload("Cuisines").
		First(&model, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return ModelToPreferences(&model), nil
}

// Save creates or replaces the preferences of a user. Diet, intolerances
// and cuisines are resolved by name; a diet ID takes precedence when set.
func (r *PreferencesRepository) Save(ctx context.Context, prefs *mealplan.UserPreferences) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model UserPreferencesModel
		err := tx.First(&model, "user_id = ?", prefs.UserID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		model.UserID = prefs.UserID
		model.CaloriesGoal = prefs.CaloriesGoal
		model.MaxPlanDays = prefs.MaxPlanDays
		model.DietTypeID = nil
		if prefs.Diet != nil {
			diet, err := resolveDiet(tx, prefs.Diet)
			if err != nil {
				return fmt.Errorf("resolve diet: %w", err)
			}
			model.DietTypeID = &diet.ID
		}

		if err := tx.Omit("Diet", "Intolerances", "Cuisines").Save(&model).Error; err != nil {
			return err
		}

		intoleranceNames := make([]string, 0, len(prefs.Intolerances))
		for _, i := range prefs.Intolerances {
			intoleranceNames = append(intoleranceNames, strings.ToLower(i.Name))
		}
		intolerances, err := findOrCreateNamed(tx, intoleranceNames, func(name string) IntoleranceModel {
			return IntoleranceModel{Name: name}
		})
		if err != nil {
			return fmt.Errorf("intolerances: %w", err)
		}
		if err := tx.Model(&model).Association("Intolerances").Replace(intolerances); err != nil {
			return err
		}

		cuisines, err := findOrCreateNamed(tx, prefs.CuisineNames(), func(name string) CuisineModel {
			return CuisineModel{Name: name}
		})
		if err != nil {
			return fmt.Errorf("cuisines: %w", err)
		}
		return tx.Model(&model).Association("Cuisines").Replace(cuisines)
	})
}

func resolveDiet(tx *gorm.DB, d *mealplan.DietType) (DietTypeModel, error) {
	if d.ID > 0 {
		var diet DietTypeModel
		err := tx.First(&diet, d.ID).Error
		if err == nil {
			return diet, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return diet, err
		}
	}
	return findOrCreateDiet(tx, d.Name)
}
