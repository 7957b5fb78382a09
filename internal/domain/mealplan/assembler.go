package mealplan

import "fmt"

// Assembler turns per-slot candidate pools into a day-by-day plan
type Assembler struct {
	shuffler Shuffler
}

// NewAssembler creates an assembler. A nil shuffler keeps pool order.
func NewAssembler(shuffler Shuffler) *Assembler {
	if shuffler == nil {
		shuffler = NoShuffle{}
	}
	return &Assembler{shuffler: shuffler}
}

// Assemble selects one recipe per slot for up to requestedDays days.
//
// Breakfasts rotate freely. Lunches rotate and are recorded; each dinner
// avoids every lunch used so far, then that day's lunch, and only as a last
// resort may equal it.
func (a *Assembler) Assemble(pools Pools, requestedDays int) (PlanStructure, PlanGenerationStatus, error) {
	if requestedDays < 1 {
		requestedDays = DefaultPlanDays
	}

	for _, slot := range Slots {
		if len(pools[slot]) == 0 {
			return nil, "", NewInsufficientVarietyError(slot)
		}
	}

	breakfasts := a.shuffled(pools[SlotBreakfast])
	lunches := a.shuffled(pools[SlotLunch])
	dinners := a.shuffled(pools[SlotDinner])

	effectiveDays := min(len(lunches), len(dinners))
	if effectiveDays < MinimumViableDays || len(breakfasts) < MinimumBreakfasts {
		return nil, "", tooStrict(fmt.Sprintf(
			"found %d breakfast, %d lunch and %d dinner options",
			len(breakfasts), len(lunches), len(dinners),
		))
	}

	days := min(effectiveDays, requestedDays)
	status := StatusPartialSuccess
	if effectiveDays >= requestedDays {
		status = StatusFullSuccess
	}

	plan := make(PlanStructure, days)
	usedLunches := NewIDSet()

	for day := 0; day < days; day++ {
		lunch := lunches[day%len(lunches)]
		usedLunches.Add(lunch.ID)

		plan[day] = DayPlan{
			SlotBreakfast: breakfasts[day%len(breakfasts)],
			SlotLunch:     lunch,
			SlotDinner:    pickDinner(dinners, usedLunches, lunch, day),
		}
	}

	return plan, status, nil
}

func pickDinner(dinners []Recipe, usedLunches IDSet, lunch Recipe, day int) Recipe {
	candidates := filterRecipes(dinners, func(r Recipe) bool { return !usedLunches.Has(r.ID) })
	if len(candidates) == 0 {
		candidates = filterRecipes(dinners, func(r Recipe) bool { return r.ID != lunch.ID })
	}
	if len(candidates) == 0 {
		candidates = dinners
	}
	return candidates[day%len(candidates)]
}

func filterRecipes(recipes []Recipe, keep func(Recipe) bool) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (a *Assembler) shuffled(pool []Recipe) []Recipe {
	out := make([]Recipe, len(pool))
	copy(out, pool)
	ShuffleRecipes(a.shuffler, out)
	return out
}
