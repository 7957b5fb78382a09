package gorm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db, now: time.Now}
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// Save persists a plan and its items in one transaction
func (r *MealPlanRepository) Save(ctx context.Context, userID uuid.UUID, plan mealplan.PlanStructure, status mealplan.PlanGenerationStatus) (*outbound.MealPlanRecord, error) {
	createdAt := r.now().UTC()
	model := MealPlanModel{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    string(status),
		CreatedAt: createdAt,
	}

	days := make([]int, 0, len(plan))
	for day := range plan {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, day := range days {
		for _, slot := range mealplan.Slots {
			recipe, ok := plan[day][slot]
			if !ok {
				continue
			}
			model.Items = append(model.Items, MealItemModel{
				ID:       uuid.New(),
				Day:      day,
				DayLabel: DayLabel(createdAt, day),
				Slot:     int(slot),
				MealType: slot.MealType(),
				RecipeID: recipe.ID,
			})
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Items.Recipe", "Items.MealPlan").Create(&model).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save meal plan: %w", err)
	}

	return r.FindByID(ctx, model.ID)
}

func (r *MealPlanRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day ASC").Order("slot ASC")
		}).
		Preload("Items.Recipe")
}

// FindByID finds a plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*outbound.MealPlanRecord, error) {
	var model MealPlanModel
	err := r.withItems(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return ModelToMealPlan(&model), nil
}

// FindLatestByUserID returns the most recently created plan of a user
func (r *MealPlanRepository) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*outbound.MealPlanRecord, error) {
	var model MealPlanModel
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}
	return ModelToMealPlan(&model), nil
}

// FindMealItem loads one item together with its recipe and owning user
func (r *MealPlanRepository) FindMealItem(ctx context.Context, itemID uuid.UUID) (*outbound.MealItemRecord, error) {
	var model MealItemModel
	err := r.db.WithContext(ctx).
		Preload("MealPlan").
		Preload("Recipe").
		First(&model, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, err
	}

	var userID uuid.UUID
	if model.MealPlan != nil {
		userID = model.MealPlan.UserID
	}
	item := ModelToMealItem(&model, userID)
	return &item, nil
}

// UpdateMealItemRecipe points a meal item at another recipe
func (r *MealPlanRepository) UpdateMealItemRecipe(ctx context.Context, itemID, recipeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&MealItemModel{}).
		Where("id = ?", itemID).
		Update("recipe_id", recipeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}
