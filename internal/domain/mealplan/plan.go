package mealplan

// PlanGenerationStatus reports whether the full horizon was produced
type PlanGenerationStatus string

const (
	StatusFullSuccess    PlanGenerationStatus = "FULL_SUCCESS"
	StatusPartialSuccess PlanGenerationStatus = "PARTIAL_SUCCESS"
)

// DayPlan assigns one recipe to each slot of a day
type DayPlan map[MealSlot]Recipe

// Complete reports whether every slot has a recipe
func (d DayPlan) Complete() bool {
	for _, slot := range Slots {
		if _, ok := d[slot]; !ok {
			return false
		}
	}
	return true
}

// PlanStructure maps a 0-based day index to that day's meals. Every day
// present is complete.
type PlanStructure map[int]DayPlan

// Days returns the number of days in the plan
func (p PlanStructure) Days() int {
	return len(p)
}

// Pools holds candidate recipes per slot
type Pools map[MealSlot][]Recipe
