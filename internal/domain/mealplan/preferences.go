package mealplan

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Well-known diet identifiers seeded into the catalog
const (
	DietBalancedID   = 1
	DietVegetarianID = 2
	DietVeganID      = 3
	DietGlutenFreeID = 4
	DietDairyFreeID  = 5
	DietLowFodmapID  = 12
)

// Generation defaults
const (
	DefaultCaloriesGoal = 2000.0
	DefaultPlanDays     = 5
	MaxPlanDays         = 7
	MinimumViableDays   = 1
	MinimumBreakfasts   = 2
)

// Intolerances the local catalog can enforce through boolean recipe flags
const (
	IntoleranceGluten = "gluten"
	IntoleranceDairy  = "dairy"
)

// DietType is a named diet. Balanced means no diet constraint.
type DietType struct {
	ID   int
	Name string
}

// IsBalanced reports whether the diet imposes no constraint
func (d *DietType) IsBalanced() bool {
	return d == nil || d.ID == DietBalancedID
}

// Intolerance is a food intolerance label
type Intolerance struct {
	ID   int
	Name string
}

// Cuisine is a cuisine region label
type Cuisine struct {
	ID   int
	Name string
}

// UserPreferences is the read-only input to generation
type UserPreferences struct {
	UserID       uuid.UUID
	Diet         *DietType
	Intolerances []Intolerance
	Cuisines     []Cuisine
	CaloriesGoal float64
	MaxPlanDays  int
}

// EffectiveCaloriesGoal returns the goal, or the default when it is not positive
func (p UserPreferences) EffectiveCaloriesGoal() float64 {
	if p.CaloriesGoal <= 0 {
		return DefaultCaloriesGoal
	}
	return p.CaloriesGoal
}

// QueryProfile is the source-agnostic filter set derived from preferences.
// Empty strings mean "no constraint".
type QueryProfile struct {
	Diet         string
	Intolerances string
	Cuisines     string
}

// Normalize derives the query profile for a generation run
func Normalize(p UserPreferences) QueryProfile {
	var profile QueryProfile
	if !p.Diet.IsBalanced() {
		profile.Diet = p.Diet.Name
	}

	intolerances := make([]string, 0, len(p.Intolerances))
	for _, i := range p.Intolerances {
		intolerances = append(intolerances, strings.ToLower(i.Name))
	}
	profile.Intolerances = strings.Join(intolerances, ",")

	cuisines := make([]string, 0, len(p.Cuisines))
	for _, c := range p.Cuisines {
		cuisines = append(cuisines, strings.ToLower(c.Name))
	}
	profile.Cuisines = strings.Join(cuisines, ",")

	return profile
}

// CuisineNames returns the lower-cased cuisine names
func (p UserPreferences) CuisineNames() []string {
	names := make([]string, 0, len(p.Cuisines))
	for _, c := range p.Cuisines {
		names = append(names, strings.ToLower(c.Name))
	}
	return names
}

// HasComplexIntolerances reports whether any intolerance cannot be enforced by
// the gluten-free/dairy-free recipe flags.
func HasComplexIntolerances(p UserPreferences) bool {
	for _, i := range p.Intolerances {
		switch strings.ToLower(strings.TrimSpace(i.Name)) {
		case IntoleranceGluten, IntoleranceDairy:
		default:
			return true
		}
	}
	return false
}

// IntoleranceFlags are the simple intolerances enforced through recipe flags
type IntoleranceFlags struct {
	GlutenFree bool
	DairyFree  bool
}

// SimpleIntoleranceFlags maps gluten/dairy intolerances onto recipe flags
func SimpleIntoleranceFlags(p UserPreferences) IntoleranceFlags {
	var flags IntoleranceFlags
	for _, i := range p.Intolerances {
		name := strings.ToLower(i.Name)
		if strings.Contains(name, IntoleranceGluten) {
			flags.GlutenFree = true
		}
		if strings.Contains(name, IntoleranceDairy) {
			flags.DairyFree = true
		}
	}
	return flags
}

// AllocateCalories splits a daily goal into per-slot targets. The caller is
// responsible for substituting a default for non-positive goals.
func AllocateCalories(dailyGoal float64) map[MealSlot]int {
	targets := make(map[MealSlot]int, len(Slots))
	for _, slot := range Slots {
		targets[slot] = int(math.Round(dailyGoal * CaloriePercentages[slot]))
	}
	return targets
}

// CalorieWindow is an inclusive calorie range
type CalorieWindow struct {
	Min int
	Max int
}

// Contains reports whether calories fall within the window
func (w CalorieWindow) Contains(calories float64) bool {
	return calories >= float64(w.Min) && calories <= float64(w.Max)
}

// CalorieWindowFor returns target ± max(150, 25% of target)
func CalorieWindowFor(target int) CalorieWindow {
	spread := math.Max(150, float64(target)*0.25)
	r := int(math.Round(spread))
	return CalorieWindow{Min: target - r, Max: target + r}
}
