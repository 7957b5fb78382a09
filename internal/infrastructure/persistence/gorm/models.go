// Package gorm provides GORM model definitions and repository implementations
// for the recipe catalog, user preferences and meal plans
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for catalog recipes.
// Imported recipes carry a unique ExternalID; user-authored ones a CreatorID.
type RecipeModel struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey"`
	ExternalID   *int64     `gorm:"uniqueIndex"`
	CreatorID    *uuid.UUID `gorm:"type:char(36);index"`
	Title        string     `gorm:"type:varchar(255);not null"`
	ImageURL     string     `gorm:"type:text"`
	ImageType    string     `gorm:"type:varchar(20)"`
	ReadyMinutes int
	Servings     int
	Summary      string   `gorm:"type:text"`
	Calories     *float64 `gorm:"index"`
	Vegetarian   bool     `gorm:"default:false"`
	Vegan        bool     `gorm:"default:false"`
	GlutenFree   bool     `gorm:"default:false"`
	DairyFree    bool     `gorm:"default:false"`
	LowFodmap    bool     `gorm:"default:false"`
	VeryHealthy  bool     `gorm:"default:false"`
	Cheap        bool     `gorm:"default:false"`
	Sustainable  bool     `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	DishTypes []DishTypeModel `gorm:"many2many:recipe_dish_types;joinForeignKey:RecipeID;joinReferences:DishTypeID"`
	Cuisines  []CuisineModel  `gorm:"many2many:recipe_cuisines;joinForeignKey:RecipeID;joinReferences:CuisineID"`
	Diets     []DietTypeModel `gorm:"many2many:recipe_diet_types;joinForeignKey:RecipeID;joinReferences:DietTypeID"`
}

// DishTypeModel is a dish type label such as "breakfast" or "main course"
type DishTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// CuisineModel is a cuisine region label
type CuisineModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// DietTypeModel is a named diet
type DietTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// IntoleranceModel is a food intolerance label
type IntoleranceModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// UserPreferencesModel stores one user's dietary preferences
type UserPreferencesModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID `gorm:"type:char(36);uniqueIndex;not null"`
	DietTypeID   *uint
	Diet         *DietTypeModel `gorm:"foreignKey:DietTypeID"`
	CaloriesGoal float64
	MaxPlanDays  int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Intolerances []IntoleranceModel `gorm:"many2many:user_preference_intolerances;joinForeignKey:PreferencesID;joinReferences:IntoleranceID"`
	Cuisines     []CuisineModel     `gorm:"many2many:user_preference_cuisines;joinForeignKey:PreferencesID;joinReferences:CuisineID"`
}

// MealPlanModel is a persisted plan
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);index;not null"`
	Status    string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Items []MealItemModel `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE"`
}

// MealItemModel is one (day, slot) assignment of a plan
type MealItemModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	MealPlanID uuid.UUID `gorm:"type:char(36);index;not null"`
	Day        int       `gorm:"not null"`
	DayLabel   string    `gorm:"type:varchar(16)"`
	Slot       int       `gorm:"not null"`
	MealType   string    `gorm:"type:varchar(16)"`
	RecipeID   uuid.UUID `gorm:"type:char(36);index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	MealPlan *MealPlanModel `gorm:"foreignKey:MealPlanID"`
	Recipe   RecipeModel    `gorm:"foreignKey:RecipeID"`
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&DishTypeModel{},
		&CuisineModel{},
		&DietTypeModel{},
		&IntoleranceModel{},
		&RecipeModel{},
		&UserPreferencesModel{},
		&MealPlanModel{},
		&MealItemModel{},
	}
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for UserPreferencesModel
func (p *UserPreferencesModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealItemModel
func (m *MealItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Table names
func (RecipeModel) TableName() string {
	return "recipes"
}

func (DishTypeModel) TableName() string {
	return "dish_types"
}

func (CuisineModel) TableName() string {
	return "cuisines"
}

func (DietTypeModel) TableName() string {
	return "diet_types"
}

func (IntoleranceModel) TableName() string {
	return "intolerances"
}

func (UserPreferencesModel) TableName() string {
	return "user_preferences"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (MealItemModel) TableName() string {
	return "meal_items"
}
