// Package spoonacular provides the external recipe catalog client
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const searchPath = "/recipes/complexSearch"

// maxResultsPerCall is the page size ceiling of complexSearch
const maxResultsPerCall = 100

// Options configures the client
type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        uint64
	MaxBackoff        time.Duration
	Transport         http.RoundTripper // nil uses http.DefaultTransport
}

// Client implements outbound.ExternalRecipeCatalog against the Spoonacular API
type Client struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	maxBackoff time.Duration
	logger     *zap.Logger
}

// NewClient creates a new Spoonacular client
func NewClient(opts Options, logger *zap.Logger) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	if opts.APIKey == "" {
		logger.Warn("Spoonacular API key not configured, external searches will fail")
	}

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: opts.MaxRetries,
		maxBackoff: opts.MaxBackoff,
		logger:     logger.Named("spoonacular"),
	}
}

var _ outbound.ExternalRecipeCatalog = (*Client)(nil)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spoonacular API error %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// API structures
type searchResponse struct {
	Results      []recipeResult `json:"results"`
	Offset       int            `json:"offset"`
	Number       int            `json:"number"`
	TotalResults int            `json:"totalResults"`
}

type recipeResult struct {
	outbound.ExternalRecipe
	Nutrition *nutrition `json:"nutrition,omitempty"`
}

type nutrition struct {
	Nutrients []nutrient `json:"nutrients"`
}

type nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Search runs a complexSearch request. Rate limiting and retries on 429
// and 5xx responses happen inside; the returned error is final.
func (c *Client) Search(ctx context.Context, search outbound.ExternalSearch) (outbound.ExternalSearchResult, error) {
	endpoint := c.baseURL + searchPath + "?" + buildQuery(search).Encode()

	var parsed searchResponse
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		res, err := c.do(ctx, endpoint)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		parsed = res
		return nil
	}

	err := backoff.RetryNotify(operation, c.backoff(ctx), func(err error, wait time.Duration) {
		c.logger.Warn("Retrying external search",
			zap.String("dish_type", search.DishType),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return outbound.ExternalSearchResult{}, err
	}

	result := outbound.ExternalSearchResult{
		Results:      make([]outbound.ExternalRecipe, 0, len(parsed.Results)),
		TotalResults: parsed.TotalResults,
	}
	for _, r := range parsed.Results {
		recipe := r.ExternalRecipe
		if r.Nutrition != nil {
			recipe.Calories = caloriesFrom(r.Nutrition.Nutrients)
		}
		result.Results = append(result.Results, recipe)
	}

	c.logger.Debug("External search completed",
		zap.String("dish_type", search.DishType),
		zap.Int("requested", search.Count),
		zap.Int("returned", len(result.Results)),
		zap.Int("total_results", result.TotalResults))

	return result, nil
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	if c.maxBackoff > 0 {
		expo.MaxInterval = c.maxBackoff
	}
	expo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(expo, c.maxRetries), ctx)
}

func (c *Client) do(ctx context.Context, endpoint string) (searchResponse, error) {
	var parsed searchResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return parsed, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return parsed, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return parsed, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parsed, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, backoff.Permanent(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return parsed, nil
}

func buildQuery(search outbound.ExternalSearch) url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "type", search.DishType)
	setIfNotEmpty(q, "diet", strings.ToLower(search.Diet))
	setIfNotEmpty(q, "intolerances", strings.ToLower(search.Intolerances))
	setIfNotEmpty(q, "cuisine", search.Cuisine)
	setIfNotEmpty(q, "sort", search.Sort)
	if search.MinCalories != nil {
		q.Set("minCalories", strconv.Itoa(*search.MinCalories))
	}
	if search.MaxCalories != nil {
		q.Set("maxCalories", strconv.Itoa(*search.MaxCalories))
	}

	number := search.Count
	if number < 1 {
		number = 1
	}
	if number > maxResultsPerCall {
		number = maxResultsPerCall
	}
	q.Set("number", strconv.Itoa(number))
	if search.Offset > 0 {
		q.Set("offset", strconv.Itoa(search.Offset))
	}

	q.Set("addRecipeInformation", "true")
	q.Set("addRecipeNutrition", "true")
	return q
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// caloriesFrom picks the calorie amount from the nutrient list
func caloriesFrom(nutrients []nutrient) *float64 {
	for _, n := range nutrients {
		if strings.EqualFold(n.Name, "calories") {
			amount := n.Amount
			return &amount
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
