package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const searchBody = `{
  "results": [
    {
      "id": 716429,
      "title": "Pasta with Garlic, Scallions, Cauliflower & Breadcrumbs",
      "image": "https://img.spoonacular.com/recipes/716429-312x231.jpg",
      "imageType": "jpg",
      "readyInMinutes": 45,
      "servings": 2,
      "vegetarian": true,
      "glutenFree": false,
      "dishTypes": ["lunch", "main course"],
      "cuisines": ["Italian"],
      "diets": ["lacto ovo vegetarian"],
      "nutrition": {"nutrients": [
        {"name": "Fat", "amount": 20.1, "unit": "g"},
        {"name": "Calories", "amount": 584.5, "unit": "kcal"}
      ]}
    },
    {"id": 715538, "title": "Bruschetta"}
  ],
  "offset": 0,
  "number": 2,
  "totalResults": 86
}`

func newTestClient(serverURL string) *Client {
	return NewClient(Options{
		BaseURL:    serverURL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		MaxBackoff: 50 * time.Millisecond,
	}, zap.NewNop())
}

func TestSearchParsesResults(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	minCalories, maxCalories := 600, 1000
	result, err := newTestClient(server.URL).Search(context.Background(), outbound.ExternalSearch{
		DishType:     "main course",
		Diet:         "Vegetarian",
		Intolerances: "Peanut,Shellfish",
		Cuisine:      "italian",
		MinCalories:  &minCalories,
		MaxCalories:  &maxCalories,
		Count:        250,
		Sort:         "random",
	})

	require.NoError(t, err)
	assert.Equal(t, 86, result.TotalResults)
	require.Len(t, result.Results, 2)

	pasta := result.Results[0]
	assert.Equal(t, int64(716429), pasta.ExternalID)
	assert.True(t, pasta.Vegetarian)
	assert.Equal(t, []string{"lunch", "main course"}, pasta.DishTypes)
	assert.Equal(t, []string{"lacto ovo vegetarian"}, pasta.Diets)
	require.NotNil(t, pasta.Calories)
	assert.InDelta(t, 584.5, *pasta.Calories, 0.001)
	assert.Nil(t, result.Results[1].Calories)

	assert.Equal(t, "main course", query.Get("type"))
	assert.Equal(t, "vegetarian", query.Get("diet"))
	assert.Equal(t, "peanut,shellfish", query.Get("intolerances"))
	assert.Equal(t, "italian", query.Get("cuisine"))
	assert.Equal(t, "600", query.Get("minCalories"))
	assert.Equal(t, "1000", query.Get("maxCalories"))
	assert.Equal(t, "100", query.Get("number"))
	assert.Equal(t, "random", query.Get("sort"))
	assert.Equal(t, "true", query.Get("addRecipeNutrition"))
	assert.False(t, query.Has("offset"))
}

func TestSearchRetriesRateLimited(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Search(context.Background(), outbound.ExternalSearch{DishType: "breakfast", Count: 2})

	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), outbound.ExternalSearch{Count: 1})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"status":"failure","message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), outbound.ExternalSearch{Count: 1})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.False(t, statusErr.Retryable())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Search(ctx, outbound.ExternalSearch{Count: 1})
	assert.Error(t, err)
}

func TestBuildQueryOmitsEmptyValues(t *testing.T) {
	q := buildQuery(outbound.ExternalSearch{Offset: 200})

	assert.Equal(t, "1", q.Get("number"))
	assert.Equal(t, "200", q.Get("offset"))
	for _, key := range []string{"type", "diet", "intolerances", "cuisine", "minCalories", "maxCalories", "sort"} {
		assert.False(t, q.Has(key), key)
	}
}
