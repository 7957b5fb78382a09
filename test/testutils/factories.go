// Package testutils provides test data factories, mocks and database helpers
package testutils

import (
	"strings"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe creates a catalog recipe tagged with the given dish type
func (f *RecipeFactory) Recipe(dishType string, calories float64) mealplan.Recipe {
	externalID := f.faker.Int64()
	if externalID < 0 {
		externalID = -externalID
	}
	return mealplan.Recipe{
		ID:           uuid.New(),
		ExternalID:   &externalID,
		Title:        f.faker.Dessert() + " " + f.faker.Noun(),
		Calories:     &calories,
		DishTypes:    []string{dishType},
		ReadyMinutes: f.faker.Number(5, 90),
		Servings:     f.faker.Number(1, 6),
		ImageURL:     f.faker.URL(),
	}
}

// Recipes creates n catalog recipes for one slot, near its calorie target
func (f *RecipeFactory) Recipes(slot mealplan.MealSlot, n int, target int) []mealplan.Recipe {
	dishType := slot.DishTypes().LocalDishTypes[0]
	out := make([]mealplan.Recipe, 0, n)
	for i := 0; i < n; i++ {
		calories := float64(target + f.faker.Number(-100, 100))
		out = append(out, f.Recipe(dishType, calories))
	}
	return out
}

// Pools creates breakfast, lunch and dinner pools of the given sizes
func (f *RecipeFactory) Pools(breakfasts, lunches, dinners int) mealplan.Pools {
	targets := mealplan.AllocateCalories(mealplan.DefaultCaloriesGoal)
	return mealplan.Pools{
		mealplan.SlotBreakfast: f.Recipes(mealplan.SlotBreakfast, breakfasts, targets[mealplan.SlotBreakfast]),
		mealplan.SlotLunch:     f.Recipes(mealplan.SlotLunch, lunches, targets[mealplan.SlotLunch]),
		mealplan.SlotDinner:    f.Recipes(mealplan.SlotDinner, dinners, targets[mealplan.SlotDinner]),
	}
}

// ExternalRecipeBuilder provides a fluent interface for building catalog payloads
type ExternalRecipeBuilder struct {
	recipe outbound.ExternalRecipe
}

// NewExternalRecipeBuilder creates a builder with random defaults
func NewExternalRecipeBuilder() *ExternalRecipeBuilder {
	calories := float64(gofakeit.Number(200, 900))
	return &ExternalRecipeBuilder{
		recipe: outbound.ExternalRecipe{
			ExternalID:     int64(gofakeit.Number(1, 1_000_000_000)),
			Title:          strings.TrimSpace(gofakeit.Adjective() + " " + gofakeit.Dessert()),
			ImageURL:       gofakeit.URL(),
			ImageType:      "jpg",
			ReadyInMinutes: gofakeit.Number(5, 120),
			Servings:       gofakeit.Number(1, 8),
			Summary:        gofakeit.Sentence(12),
			Calories:       &calories,
			DishTypes:      []string{"main course"},
		},
	}
}

// WithExternalID sets the catalog identifier
func (b *ExternalRecipeBuilder) WithExternalID(id int64) *ExternalRecipeBuilder {
	b.recipe.ExternalID = id
	return b
}

// WithTitle sets the title
func (b *ExternalRecipeBuilder) WithTitle(title string) *ExternalRecipeBuilder {
	b.recipe.Title = title
	return b
}

// WithCalories sets calories; nil means unknown
func (b *ExternalRecipeBuilder) WithCalories(calories *float64) *ExternalRecipeBuilder {
	b.recipe.Calories = calories
	return b
}

// WithDishTypes replaces the dish types
func (b *ExternalRecipeBuilder) WithDishTypes(dishTypes ...string) *ExternalRecipeBuilder {
	b.recipe.DishTypes = dishTypes
	return b
}

// WithCuisines replaces the cuisines
func (b *ExternalRecipeBuilder) WithCuisines(cuisines ...string) *ExternalRecipeBuilder {
	b.recipe.Cuisines = cuisines
	return b
}

// WithDiets replaces the diet labels
func (b *ExternalRecipeBuilder) WithDiets(diets ...string) *ExternalRecipeBuilder {
	b.recipe.Diets = diets
	return b
}

// Vegetarian marks the recipe vegetarian
func (b *ExternalRecipeBuilder) Vegetarian() *ExternalRecipeBuilder {
	b.recipe.Vegetarian = true
	return b
}

// GlutenFree marks the recipe gluten free
func (b *ExternalRecipeBuilder) GlutenFree() *ExternalRecipeBuilder {
	b.recipe.GlutenFree = true
	return b
}

// DairyFree marks the recipe dairy free
func (b *ExternalRecipeBuilder) DairyFree() *ExternalRecipeBuilder {
	b.recipe.DairyFree = true
	return b
}

// Build returns the payload
func (b *ExternalRecipeBuilder) Build() outbound.ExternalRecipe {
	return b.recipe
}

// ExternalRecipes creates n payloads with the given dish type
func ExternalRecipes(n int, dishType string) []outbound.ExternalRecipe {
	out := make([]outbound.ExternalRecipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewExternalRecipeBuilder().WithDishTypes(dishType).Build())
	}
	return out
}

// PreferencesBuilder builds user preferences
type PreferencesBuilder struct {
	prefs mealplan.UserPreferences
}

// NewPreferencesBuilder creates balanced preferences for a random user
func NewPreferencesBuilder() *PreferencesBuilder {
	return &PreferencesBuilder{
		prefs: mealplan.UserPreferences{
			UserID:       uuid.New(),
			Diet:         &mealplan.DietType{ID: mealplan.DietBalancedID, Name: "Balanced"},
			CaloriesGoal: mealplan.DefaultCaloriesGoal,
		},
	}
}

// ForUser sets the user
func (b *PreferencesBuilder) ForUser(id uuid.UUID) *PreferencesBuilder {
	b.prefs.UserID = id
	return b
}

// WithDiet sets the diet
func (b *PreferencesBuilder) WithDiet(id int, name string) *PreferencesBuilder {
	b.prefs.Diet = &mealplan.DietType{ID: id, Name: name}
	return b
}

// WithIntolerances sets intolerances by name
func (b *PreferencesBuilder) WithIntolerances(names ...string) *PreferencesBuilder {
	b.prefs.Intolerances = nil
	for _, name := range names {
		b.prefs.Intolerances = append(b.prefs.Intolerances, mealplan.Intolerance{Name: name})
	}
	return b
}

// WithCuisines sets cuisines by name
func (b *PreferencesBuilder) WithCuisines(names ...string) *PreferencesBuilder {
	b.prefs.Cuisines = nil
	for _, name := range names {
		b.prefs.Cuisines = append(b.prefs.Cuisines, mealplan.Cuisine{Name: name})
	}
	return b
}

// WithCalories sets the daily goal
func (b *PreferencesBuilder) WithCalories(goal float64) *PreferencesBuilder {
	b.prefs.CaloriesGoal = goal
	return b
}

// WithMaxDays caps the plan horizon
func (b *PreferencesBuilder) WithMaxDays(days int) *PreferencesBuilder {
	b.prefs.MaxPlanDays = days
	return b
}

// Build returns the preferences
func (b *PreferencesBuilder) Build() mealplan.UserPreferences {
	return b.prefs
}

// ImportedRecipe maps a catalog payload to a stored recipe with a fresh ID
func ImportedRecipe(payload outbound.ExternalRecipe) mealplan.Recipe {
	externalID := payload.ExternalID
	return mealplan.Recipe{
		ID:           uuid.New(),
		ExternalID:   &externalID,
		Title:        payload.Title,
		Calories:     payload.Calories,
		DishTypes:    payload.DishTypes,
		Diets:        payload.Diets,
		Cuisines:     payload.Cuisines,
		GlutenFree:   payload.GlutenFree,
		DairyFree:    payload.DairyFree,
		ReadyMinutes: payload.ReadyInMinutes,
		Servings:     payload.Servings,
	}
}
