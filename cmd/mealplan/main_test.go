package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Validation", errors.NewValidationError("bad"), 2},
		{"InsufficientVariety", errors.NewInsufficientVarietyError(mealplan.ErrInsufficientRecipeVariety), 3},
		{"TooStrict", errors.NewPreferencesTooStrictError(mealplan.ErrPreferencesTooStrict), 3},
		{"PlanNotFound", errors.NewMealPlanNotFoundError(uuid.NewString()), 4},
		{"Wrapped", fmt.Errorf("generate: %w", errors.NewPreferencesNotFoundError("u")), 4},
		{"ExternalCatalog", errors.NewExternalServiceError("catalog", assert.AnError), 5},
		{"Database", errors.NewDatabaseError("save", assert.AnError), 1},
		{"Plain", assert.AnError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		var stderr bytes.Buffer
		cli := &CLI{errOut: &stderr}

		cli.printError(errors.NewMealItemNotFoundError("item-1"), true)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal(stderr.Bytes(), &resp))
		assert.Equal(t, errors.CodeMealItemNotFound, resp.Error.Code)
		assert.Equal(t, "item-1", resp.Error.Metadata["meal_item_id"])
		assert.NotEmpty(t, resp.Error.Timestamp)
	})

	t.Run("Text", func(t *testing.T) {
		var stderr bytes.Buffer
		cli := &CLI{errOut: &stderr}

		cli.printError(assert.AnError, false)

		assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", stderr.String())
	})
}

func TestParseCommand(t *testing.T) {
	userID := uuid.New()

	t.Run("Generate", func(t *testing.T) {
		cmd, err := parseCommand("generate", []string{"-user", userID.String(), "-days", "3", "-json", "-config", "plans.yaml"})
		require.NoError(t, err)

		gen, ok := cmd.(*generateCommand)
		require.True(t, ok)
		assert.Equal(t, userID, gen.userID)
		assert.Equal(t, 3, gen.days)
		assert.True(t, cmd.JSON())
		assert.Equal(t, "plans.yaml", cmd.ConfigPath())
	})

	t.Run("SuggestBySlot", func(t *testing.T) {
		cmd, err := parseCommand("suggest", []string{"-user", userID.String(), "-slot", "Dinner", "-limit", "4"})
		require.NoError(t, err)

		suggest := cmd.(*suggestCommand)
		require.NotNil(t, suggest.cmd.Slot)
		assert.Equal(t, mealplan.SlotDinner, *suggest.cmd.Slot)
		assert.Nil(t, suggest.cmd.MealItemID)
		assert.Equal(t, 4, suggest.cmd.Limit)
	})

	t.Run("PrefsLists", func(t *testing.T) {
		cmd, err := parseCommand("prefs", []string{"-user", userID.String(), "-intolerances", "gluten, peanut,", "-cuisines", "Thai"})
		require.NoError(t, err)

		prefs := cmd.(*prefsCommand).prefs
		require.Len(t, prefs.Intolerances, 2)
		assert.Equal(t, "peanut", prefs.Intolerances[1].Name)
		require.Len(t, prefs.Cuisines, 1)
		assert.Equal(t, mealplan.DefaultCaloriesGoal, prefs.CaloriesGoal)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := parseCommand("generate", nil)
		assert.ErrorContains(t, err, "-user is required")

		_, err = parseCommand("replace", []string{"-user", userID.String(), "-item", "nope"})
		assert.ErrorContains(t, err, "-item")

		_, err = parseCommand("suggest", []string{"-user", userID.String(), "-slot", "brunch"})
		assert.Error(t, err)

		_, err = parseCommand("cook", nil)
		assert.ErrorContains(t, err, "unknown command")
	})
}
