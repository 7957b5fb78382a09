package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type lookupCounter struct {
	hits, misses int
}

func (c *lookupCounter) CacheLookup(_ string, hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func TestSearchCacheServesRepeatedSearches(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	store := memory.NewCacheRepository(0)
	counter := &lookupCounter{}
	cached := NewSearchCache(external, store, time.Hour, counter, zap.NewNop())

	search := outbound.ExternalSearch{Count: 100, Offset: 200, Sort: "popularity"}
	result := outbound.ExternalSearchResult{Results: testutils.ExternalRecipes(3, "breakfast"), TotalResults: 3}
	external.On("Search", mock.Anything, search).Return(result, nil).Once()

	first, err := cached.Search(context.Background(), search)
	require.NoError(t, err)
	second, err := cached.Search(context.Background(), search)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)
	external.AssertExpectations(t)
}

func TestSearchCacheKeysDifferByParameters(t *testing.T) {
	minCalories := 300
	a, err := SearchKey(outbound.ExternalSearch{DishType: "breakfast", Count: 10})
	require.NoError(t, err)
	b, err := SearchKey(outbound.ExternalSearch{DishType: "breakfast", Count: 10, MinCalories: &minCalories})
	require.NoError(t, err)
	again, err := SearchKey(outbound.ExternalSearch{DishType: "breakfast", Count: 10})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
	assert.Contains(t, a, searchKeyPrefix)
}

func TestSearchCacheDoesNotCacheErrors(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	store := memory.NewCacheRepository(0)
	cached := NewSearchCache(external, store, time.Hour, nil, zap.NewNop())
	search := outbound.ExternalSearch{DishType: "soup", Count: 4}

	external.On("Search", mock.Anything, search).Return(outbound.ExternalSearchResult{}, assert.AnError).Once()
	external.On("Search", mock.Anything, search).Return(outbound.ExternalSearchResult{TotalResults: 7}, nil).Once()

	_, err := cached.Search(context.Background(), search)
	require.ErrorIs(t, err, assert.AnError)

	result, err := cached.Search(context.Background(), search)
	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalResults)
	external.AssertExpectations(t)
}

func TestSearchCacheFallsThroughOnCacheFaults(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	store := new(testutils.MockCacheRepository)
	cached := NewSearchCache(external, store, time.Minute, nil, zap.NewNop())
	search := outbound.ExternalSearch{DishType: "salad", Count: 2}
	key, err := SearchKey(search)
	require.NoError(t, err)

	store.On("Get", mock.Anything, key).Return([]byte("{not json"), nil).Once()
	store.On("Delete", mock.Anything, key).Return(nil).Once()
	store.On("Set", mock.Anything, key, mock.Anything, time.Minute).Return(assert.AnError).Once()
	external.On("Search", mock.Anything, search).Return(outbound.ExternalSearchResult{TotalResults: 1}, nil).Once()

	result, err := cached.Search(context.Background(), search)

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalResults)
	store.AssertExpectations(t)
}

type atomicCounter struct {
	misses atomic.Int32
}

func (c *atomicCounter) CacheLookup(_ string, hit bool) {
	if !hit {
		c.misses.Add(1)
	}
}

func TestSearchCacheCollapsesConcurrentMisses(t *testing.T) {
	const callers = 5
	external := new(testutils.MockExternalCatalog)
	counter := &atomicCounter{}
	cached := NewSearchCache(external, memory.NewCacheRepository(0), time.Hour, counter, zap.NewNop())
	search := outbound.ExternalSearch{DishType: "main course", Count: 10, Sort: "popularity"}

	release := make(chan time.Time)
	external.On("Search", mock.Anything, search).
		WaitUntil(release).
		Return(outbound.ExternalSearchResult{TotalResults: 42}, nil).
		Once()

	var wg sync.WaitGroup
	results := make([]outbound.ExternalSearchResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := cached.Search(context.Background(), search)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}

	require.Eventually(t, func() bool { return counter.misses.Load() == callers }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, 42, result.TotalResults)
	}
	external.AssertExpectations(t)
}

func TestSearchCacheBypassesRandomSearches(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	store := new(testutils.MockCacheRepository)
	counter := &lookupCounter{}
	cached := NewSearchCache(external, store, time.Hour, counter, zap.NewNop())
	search := outbound.ExternalSearch{DishType: "breakfast", Count: 10, Sort: SortRandom}

	external.On("Search", mock.Anything, search).Return(outbound.ExternalSearchResult{TotalResults: 3}, nil).Twice()

	for i := 0; i < 2; i++ {
		result, err := cached.Search(context.Background(), search)
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalResults)
	}

	external.AssertExpectations(t)
	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, counter.hits+counter.misses)
}

func TestSearchCacheLeaderCancellationDoesNotFailFollowers(t *testing.T) {
	external := new(testutils.MockExternalCatalog)
	counter := &atomicCounter{}
	cached := NewSearchCache(external, memory.NewCacheRepository(0), time.Hour, counter, zap.NewNop())
	search := outbound.ExternalSearch{DishType: "soup", Count: 8, Sort: "popularity"}

	release := make(chan time.Time)
	var upstreamErr error
	external.On("Search", mock.Anything, search).
		WaitUntil(release).
		Run(func(args mock.Arguments) {
			upstreamErr = args.Get(0).(context.Context).Err()
		}).
		Return(outbound.ExternalSearchResult{TotalResults: 9}, nil).
		Once()

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cached.Search(leaderCtx, search)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return counter.misses.Load() == 1 }, time.Second, 5*time.Millisecond)

	followerResult := make(chan outbound.ExternalSearchResult, 1)
	go func() {
		result, err := cached.Search(context.Background(), search)
		assert.NoError(t, err)
		followerResult <- result
	}()
	require.Eventually(t, func() bool { return counter.misses.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	assert.Equal(t, 9, (<-followerResult).TotalResults)
	assert.NoError(t, upstreamErr, "the shared call is not cancelled with its leader")
	external.AssertExpectations(t)
}
