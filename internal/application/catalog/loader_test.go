package catalog

import (
	"context"
	"testing"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func atOffset(offset int) interface{} {
	return mock.MatchedBy(func(s outbound.ExternalSearch) bool { return s.Offset == offset })
}

func TestLoadPagesUntilShortPage(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	catalog := new(testutils.MockRecipeCatalog)

	first := testutils.ExternalRecipes(3, "main course")
	second := testutils.ExternalRecipes(2, "soup")

	external.On("Search", mock.Anything, atOffset(10)).
		Return(outbound.ExternalSearchResult{Results: first, TotalResults: 100}, nil).Once()
	external.On("Search", mock.Anything, atOffset(13)).
		Return(outbound.ExternalSearchResult{Results: second, TotalResults: 100}, nil).Once()
	catalog.On("ImportOrGetRecipe", mock.Anything, mock.Anything).
		Return(testutils.ImportedRecipe, nil)

	stats, err := NewLoader(external, catalog, zap.NewNop()).Load(context.Background(), LoadOptions{
		Offset:    10,
		Sort:      "popularity",
		BatchSize: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, LoadStats{Imported: 5, Calls: 2, NextOffset: 15, Total: 100}, stats)
	for _, call := range external.Calls {
		search := call.Arguments.Get(1).(outbound.ExternalSearch)
		assert.Equal(t, 3, search.Count)
		assert.Equal(t, "popularity", search.Sort)
	}
	external.AssertExpectations(t)
}

func TestLoadCountsDuplicatesAndFailures(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	catalog := new(testutils.MockRecipeCatalog)

	good := testutils.NewExternalRecipeBuilder().WithExternalID(1).Build()
	bad := testutils.NewExternalRecipeBuilder().WithExternalID(2).Build()
	page := []outbound.ExternalRecipe{good, good, bad, {Title: "no id"}}

	external.On("Search", mock.Anything, mock.Anything).
		Return(outbound.ExternalSearchResult{Results: page, TotalResults: 4}, nil).Once()
	catalog.On("ImportOrGetRecipe", mock.Anything, good).Return(testutils.ImportedRecipe(good), nil).Once()
	catalog.On("ImportOrGetRecipe", mock.Anything, bad).Return(nil, assert.AnError).Once()

	stats, err := NewLoader(external, catalog, zap.NewNop()).Load(context.Background(), LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 2, stats.Duplicates)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 4, stats.NextOffset)
	catalog.AssertExpectations(t)
}

func TestLoadStopsAtMax(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	catalog := new(testutils.MockRecipeCatalog)

	external.On("Search", mock.Anything, mock.Anything).
		Return(outbound.ExternalSearchResult{Results: testutils.ExternalRecipes(5, "salad"), TotalResults: 500}, nil).Once()
	catalog.On("ImportOrGetRecipe", mock.Anything, mock.Anything).Return(testutils.ImportedRecipe, nil)

	stats, err := NewLoader(external, catalog, zap.NewNop()).Load(context.Background(), LoadOptions{Max: 2, BatchSize: 5})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 5, stats.NextOffset)
	catalog.AssertNumberOfCalls(t, "ImportOrGetRecipe", 2)
}

func TestLoadReturnsSearchError(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	external.On("Search", mock.Anything, mock.Anything).Return(outbound.ExternalSearchResult{}, assert.AnError)

	stats, err := NewLoader(external, new(testutils.MockRecipeCatalog), zap.NewNop()).
		Load(context.Background(), LoadOptions{Offset: 200})

	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
	assert.Equal(t, 1, stats.Calls)
	assert.Equal(t, 200, stats.NextOffset)
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	external := new(testutils.MockExternalCatalog)
	stats, err := NewLoader(external, new(testutils.MockRecipeCatalog), zap.NewNop()).Load(ctx, LoadOptions{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Calls)
	external.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}
