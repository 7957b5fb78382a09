package outbound

import "context"

// ExternalRecipeCatalog searches the third-party recipe catalog.
// Implementations own their timeout and retry policy; callers treat any
// returned error as a degraded, zero-result attempt.
type ExternalRecipeCatalog interface {
	Search(ctx context.Context, search ExternalSearch) (ExternalSearchResult, error)
}

// ExternalSearch holds the query parameters of one search attempt.
// Empty strings and nil bounds are omitted from the request.
type ExternalSearch struct {
	DishType     string
	Diet         string
	Intolerances string
	Cuisine      string
	MinCalories  *int
	MaxCalories  *int
	Count        int
	Offset       int
	Sort         string // "random" for generation, catalog order for bulk loads
}

// ExternalSearchResult is the outcome of a search
type ExternalSearchResult struct {
	Results      []ExternalRecipe
	TotalResults int
}

// ExternalRecipe is the catalog payload imported into the local catalog
type ExternalRecipe struct {
	ExternalID     int64    `json:"id"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"image,omitempty"`
	ImageType      string   `json:"imageType,omitempty"`
	ReadyInMinutes int      `json:"readyInMinutes,omitempty"`
	Servings       int      `json:"servings,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Vegetarian     bool     `json:"vegetarian"`
	Vegan          bool     `json:"vegan"`
	GlutenFree     bool     `json:"glutenFree"`
	DairyFree      bool     `json:"dairyFree"`
	LowFodmap      bool     `json:"lowFodmap"`
	VeryHealthy    bool     `json:"veryHealthy"`
	Cheap          bool     `json:"cheap"`
	Sustainable    bool     `json:"sustainable"`
	Calories       *float64 `json:"calories,omitempty"`
	DishTypes      []string `json:"dishTypes,omitempty"`
	Cuisines       []string `json:"cuisines,omitempty"`
	Diets          []string `json:"diets,omitempty"`
}
