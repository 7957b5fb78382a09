package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alchemorsel/mealplanner/internal/application/catalog"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
)

// CLI holds the services used by subcommands and the output stream
type CLI struct {
	service     inbound.MealPlanService
	preferences outbound.PreferencesRepository
	loader      *catalog.Loader
	out         io.Writer
	errOut      io.Writer
}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError reports a failed command on the error stream
func (c *CLI) printError(err error, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(c.errOut)
		enc.SetIndent("", "  ")
		if enc.Encode(errors.ToErrorResponse(err)) == nil {
			return
		}
	}
	fmt.Fprintf(c.errOut, "Error: %v\n", err)
}

func (c *CLI) printPlan(plan *inbound.MealPlanDTO, asJSON bool) error {
	if asJSON {
		return c.printJSON(plan)
	}

	fmt.Fprintf(c.out, "Plan %s (%s, %s)\n\n", plan.ID, plan.Status, plan.CreatedAt.Format("2006-01-02 15:04"))
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tMEAL\tRECIPE\tKCAL\tITEM")
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			fmt.Fprintf(w, "%d %s\t%s\t%s\t%s\t%s\n",
				day.Day, day.Label, meal.MealType, meal.Recipe.Title, calories(meal.Recipe.Calories), meal.ID)
		}
	}
	return w.Flush()
}

func (c *CLI) printRecipes(recipes []inbound.RecipeSummaryDTO, asJSON bool) error {
	if asJSON {
		return c.printJSON(recipes)
	}
	if len(recipes) == 0 {
		_, err := fmt.Fprintln(c.out, "No suggestions found")
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECIPE\tKCAL\tREADY\tID")
	for _, r := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%dm\t%s\n", r.Title, calories(r.Calories), r.ReadyMinutes, r.ID)
	}
	return w.Flush()
}

func (c *CLI) printItem(item *inbound.MealItemDTO, asJSON bool) error {
	if asJSON {
		return c.printJSON(item)
	}
	_, err := fmt.Fprintf(c.out, "Meal item %s (%s) now uses %q [%s]\n",
		item.ID, item.MealType, item.Recipe.Title, item.Recipe.ID)
	return err
}

func (c *CLI) printPreferences(prefs *mealplan.UserPreferences, asJSON bool) error {
	diet := "Balanced"
	if prefs.Diet != nil {
		diet = prefs.Diet.Name
	}
	intolerances := make([]string, 0, len(prefs.Intolerances))
	for _, i := range prefs.Intolerances {
		intolerances = append(intolerances, i.Name)
	}
	cuisines := make([]string, 0, len(prefs.Cuisines))
	for _, cu := range prefs.Cuisines {
		cuisines = append(cuisines, cu.Name)
	}

	if asJSON {
		return c.printJSON(map[string]interface{}{
			"user_id":       prefs.UserID,
			"diet":          diet,
			"intolerances":  intolerances,
			"cuisines":      cuisines,
			"calories_goal": prefs.EffectiveCaloriesGoal(),
			"max_plan_days": prefs.MaxPlanDays,
		})
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s\n", prefs.UserID)
	fmt.Fprintf(w, "Diet\t%s\n", diet)
	fmt.Fprintf(w, "Intolerances\t%s\n", strings.Join(intolerances, ", "))
	fmt.Fprintf(w, "Cuisines\t%s\n", strings.Join(cuisines, ", "))
	fmt.Fprintf(w, "Calories\t%.0f\n", prefs.EffectiveCaloriesGoal())
	if prefs.MaxPlanDays > 0 {
		fmt.Fprintf(w, "Max days\t%d\n", prefs.MaxPlanDays)
	}
	return w.Flush()
}

func (c *CLI) printLoadStats(stats catalog.LoadStats, asJSON bool) error {
	if asJSON {
		return c.printJSON(stats)
	}
	_, err := fmt.Fprintf(c.out,
		"Imported %d recipes (%d duplicates, %d failed) in %d calls; next offset %d of %d\n",
		stats.Imported, stats.Duplicates, stats.Failed, stats.Calls, stats.NextOffset, stats.Total)
	return err
}

func calories(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}
