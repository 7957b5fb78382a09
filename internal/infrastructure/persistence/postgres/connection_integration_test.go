//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	repo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/test/testutils"
)

func TestPostgresCatalog(t *testing.T) {
	pg := testutils.SetupPostgres(t)
	ctx := context.Background()
	db := pg.Manager.GetDB()

	require.NoError(t, pg.Manager.HealthCheck(ctx))

	// the diet sequence continues after the seeded identifiers
	recipes := repo.NewRecipeRepository(db)
	r, err := recipes.ImportOrGetRecipe(ctx, testutils.NewExternalRecipeBuilder().
		WithDishTypes("breakfast").
		WithDiets("mediterranean").
		Build())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mediterranean"}, r.Diets)

	var diet repo.DietTypeModel
	require.NoError(t, db.Where("name = ?", "Mediterranean").First(&diet).Error)
	assert.Greater(t, diet.ID, uint(mealplan.DietLowFodmapID))

	window := mealplan.CalorieWindowFor(500)
	_, err = recipes.FindCandidates(ctx, outbound.CandidateQuery{
		DishTypes:  []string{"breakfast"},
		Calories:   &window,
		DietID:     mealplan.DietVegetarianID,
		Cuisines:   []string{"italian"},
		ExcludeIDs: []uuid.UUID{r.ID},
		Limit:      10,
	})
	require.NoError(t, err)

	// seeding is repeatable against an existing schema
	require.NoError(t, repo.SeedReferenceData(ctx, db))
}
