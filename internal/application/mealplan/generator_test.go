package mealplan

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func isBreakfastQuery(q outbound.CandidateQuery) bool {
	return len(q.DishTypes) == 1 && q.DishTypes[0] == "breakfast"
}

func isLunchQuery(q outbound.CandidateQuery) bool {
	return !isBreakfastQuery(q) && len(q.ExcludeIDs) == 0
}

func isDinnerQuery(q outbound.CandidateQuery) bool {
	return !isBreakfastQuery(q) && len(q.ExcludeIDs) > 0
}

// recordingMetrics captures generation outcomes
type recordingMetrics struct {
	NopMetrics
	outcomes []string
	attempts []string
}

func (r *recordingMetrics) GenerationCompleted(outcome string, _ int, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) ExternalAttempt(_ mealplan.MealSlot, _ int, outcome string) {
	r.attempts = append(r.attempts, outcome)
}

// GeneratorTestSuite covers end-to-end generation against mocked catalogs
type GeneratorTestSuite struct {
	suite.Suite
	factory   *testutils.RecipeFactory
	catalog   *testutils.MockRecipeCatalog
	external  *testutils.MockExternalCatalog
	metrics   *recordingMetrics
	generator *Generator
	targets   map[mealplan.MealSlot]int
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.factory = testutils.NewRecipeFactory(7)
	suite.catalog = new(testutils.MockRecipeCatalog)
	suite.external = new(testutils.MockExternalCatalog)
	suite.metrics = &recordingMetrics{}
	suite.targets = mealplan.AllocateCalories(2000)

	sourcer := NewRecipeSourcer(suite.catalog, suite.external, mealplan.NoShuffle{}, suite.metrics, zap.NewNop())
	suite.generator = NewGenerator(sourcer, mealplan.NewAssembler(mealplan.NoShuffle{}), suite.metrics, zap.NewNop())
}

func (suite *GeneratorTestSuite) TearDownTest() {
	suite.catalog.AssertExpectations(suite.T())
	suite.external.AssertExpectations(suite.T())
}

func (suite *GeneratorTestSuite) TestLocalCatalogCoversFullHorizon() {
	breakfasts := suite.factory.Recipes(mealplan.SlotBreakfast, 5, suite.targets[mealplan.SlotBreakfast])
	mains := suite.factory.Recipes(mealplan.SlotLunch, 10, suite.targets[mealplan.SlotLunch])

	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isBreakfastQuery)).Return(breakfasts, nil).Once()
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isLunchQuery)).Return(mains, nil).Once()
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isDinnerQuery)).Return(mains, nil).Once()

	prefs := testutils.NewPreferencesBuilder().Build()
	plan, status, err := suite.generator.Generate(context.Background(), prefs, 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), mealplan.StatusFullSuccess, status)
	assert.Equal(suite.T(), 5, plan.Days())
	suite.external.AssertNotCalled(suite.T(), "Search", mock.Anything, mock.Anything)
	assert.Equal(suite.T(), []string{OutcomeFullSuccess}, suite.metrics.outcomes)

	lunches := mealplan.NewIDSet()
	for day := 0; day < plan.Days(); day++ {
		lunches.Add(plan[day][mealplan.SlotLunch].ID)
	}
	for day := 0; day < plan.Days(); day++ {
		assert.False(suite.T(), lunches.Has(plan[day][mealplan.SlotDinner].ID))
	}
}

func (suite *GeneratorTestSuite) TestShortLocalPoolsYieldPartialPlan() {
	breakfasts := suite.factory.Recipes(mealplan.SlotBreakfast, 5, suite.targets[mealplan.SlotBreakfast])
	lunches := suite.factory.Recipes(mealplan.SlotLunch, 2, suite.targets[mealplan.SlotLunch])
	dinners := suite.factory.Recipes(mealplan.SlotDinner, 2, suite.targets[mealplan.SlotDinner])

	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isBreakfastQuery)).Return(breakfasts, nil)
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isLunchQuery)).Return(lunches, nil)
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isDinnerQuery)).Return(dinners, nil)
	suite.external.On("Search", mock.Anything, mock.Anything).Return(outbound.ExternalSearchResult{}, nil)

	plan, status, err := suite.generator.Generate(context.Background(), testutils.NewPreferencesBuilder().Build(), 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), mealplan.StatusPartialSuccess, status)
	assert.Equal(suite.T(), 2, plan.Days())
	assert.Equal(suite.T(), []string{OutcomePartialSuccess}, suite.metrics.outcomes)
	// three relaxation attempts each for lunch and dinner
	suite.external.AssertNumberOfCalls(suite.T(), "Search", 6)
}

func (suite *GeneratorTestSuite) TestNoBreakfastAnywhereIsInsufficientVariety() {
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isBreakfastQuery)).Return([]mealplan.Recipe{}, nil)
	suite.external.On("Search", mock.Anything, mock.Anything).Return(outbound.ExternalSearchResult{}, nil)

	plan, _, err := suite.generator.Generate(context.Background(), testutils.NewPreferencesBuilder().Build(), 5)

	assert.Nil(suite.T(), plan)
	assert.ErrorIs(suite.T(), err, mealplan.ErrInsufficientRecipeVariety)
	assert.Equal(suite.T(), []string{OutcomeInsufficientVariety}, suite.metrics.outcomes)
	suite.catalog.AssertNumberOfCalls(suite.T(), "FindCandidates", 1)
}

func (suite *GeneratorTestSuite) TestComplexIntoleranceSkipsLocalCatalog() {
	suite.external.On("Search", mock.Anything, mock.MatchedBy(func(s outbound.ExternalSearch) bool {
		return s.DishType == "breakfast"
	})).Return(outbound.ExternalSearchResult{Results: testutils.ExternalRecipes(10, "breakfast"), TotalResults: 10}, nil)
	suite.external.On("Search", mock.Anything, mock.MatchedBy(func(s outbound.ExternalSearch) bool {
		return s.DishType == "main course"
	})).Return(outbound.ExternalSearchResult{Results: testutils.ExternalRecipes(20, "main course"), TotalResults: 20}, nil)
	suite.catalog.On("ImportOrGetRecipe", mock.Anything, mock.Anything).
		Return(func(p outbound.ExternalRecipe) mealplan.Recipe { return testutils.ImportedRecipe(p) }, nil)

	prefs := testutils.NewPreferencesBuilder().WithIntolerances("Shellfish").Build()
	require.True(suite.T(), mealplan.HasComplexIntolerances(prefs))

	plan, status, err := suite.generator.Generate(context.Background(), prefs, 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), mealplan.StatusFullSuccess, status)
	assert.Equal(suite.T(), 5, plan.Days())
	suite.catalog.AssertNotCalled(suite.T(), "FindCandidates", mock.Anything, mock.Anything)
	for _, call := range suite.external.Calls {
		search := call.Arguments.Get(1).(outbound.ExternalSearch)
		assert.Equal(suite.T(), "shellfish", search.Intolerances)
		assert.Equal(suite.T(), "random", search.Sort)
	}
}

func (suite *GeneratorTestSuite) TestExternalFailureDegradesToEmpty() {
	breakfasts := suite.factory.Recipes(mealplan.SlotBreakfast, 3, suite.targets[mealplan.SlotBreakfast])
	lunches := suite.factory.Recipes(mealplan.SlotLunch, 3, suite.targets[mealplan.SlotLunch])
	dinners := suite.factory.Recipes(mealplan.SlotDinner, 4, suite.targets[mealplan.SlotDinner])

	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isBreakfastQuery)).Return(breakfasts, nil)
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isLunchQuery)).Return(lunches, nil)
	suite.catalog.On("FindCandidates", mock.Anything, mock.MatchedBy(isDinnerQuery)).Return(dinners, nil)
	suite.external.On("Search", mock.Anything, mock.Anything).
		Return(outbound.ExternalSearchResult{}, assert.AnError)

	plan, status, err := suite.generator.Generate(context.Background(), testutils.NewPreferencesBuilder().Build(), 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), mealplan.StatusPartialSuccess, status)
	assert.Equal(suite.T(), 3, plan.Days())
	assert.Contains(suite.T(), suite.metrics.attempts, OutcomeDegraded)
}

func (suite *GeneratorTestSuite) TestLocalCatalogFailureIsReturned() {
	suite.catalog.On("FindCandidates", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, _, err := suite.generator.Generate(context.Background(), testutils.NewPreferencesBuilder().Build(), 5)

	require.ErrorIs(suite.T(), err, assert.AnError)
	assert.Equal(suite.T(), []string{OutcomeError}, suite.metrics.outcomes)
}

func TestGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}
