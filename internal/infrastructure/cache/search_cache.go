package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const searchKeyPrefix = "catalog:search:"

// SortRandom is the external sort order whose responses are never cached
const SortRandom = "random"

// LookupRecorder observes cache hits and misses
type LookupRecorder interface {
	CacheLookup(cache string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool) {}

// SearchCache decorates an external catalog with a response cache.
// Failed searches are never cached and cache faults fall through to the
// wrapped catalog. Concurrent misses for the same key share one upstream call.
// Randomized searches bypass the cache so every generation sees a fresh sample.
type SearchCache struct {
	next     outbound.ExternalRecipeCatalog
	flight   singleflight.Group
	cache    outbound.CacheRepository
	ttl      time.Duration
	recorder LookupRecorder
	logger   *zap.Logger
}

// NewSearchCache wraps next. A nil recorder disables hit accounting.
func NewSearchCache(next outbound.ExternalRecipeCatalog, cache outbound.CacheRepository, ttl time.Duration, recorder LookupRecorder, logger *zap.Logger) *SearchCache {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &SearchCache{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger.Named("search-cache"),
	}
}

var _ outbound.ExternalRecipeCatalog = (*SearchCache)(nil)

// Search returns a cached result for an identical search or delegates
func (c *SearchCache) Search(ctx context.Context, search outbound.ExternalSearch) (outbound.ExternalSearchResult, error) {
	if strings.EqualFold(search.Sort, SortRandom) {
		return c.next.Search(ctx, search)
	}

	key, err := SearchKey(search)
	if err != nil {
		return c.next.Search(ctx, search)
	}

	if cached, ok := c.lookup(ctx, key); ok {
		c.recorder.CacheLookup("external_search", true)
		return cached, nil
	}
	c.recorder.CacheLookup("external_search", false)

	// the shared call outlives any single caller's cancellation
	upstream := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (interface{}, error) {
		result, err := c.next.Search(upstream, search)
		if err != nil {
			return result, err
		}
		if data, err := json.Marshal(result); err == nil {
			if err := c.cache.Set(upstream, key, data, c.ttl); err != nil {
				c.logger.Warn("Failed to cache search result", zap.String("key", key), zap.Error(err))
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return outbound.ExternalSearchResult{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Joined in-flight search", zap.String("key", key))
		}
		result, _ := res.Val.(outbound.ExternalSearchResult)
		return result, res.Err
	}
}

func (c *SearchCache) lookup(ctx context.Context, key string) (outbound.ExternalSearchResult, bool) {
	var result outbound.ExternalSearchResult

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			c.logger.Warn("Search cache unavailable", zap.Error(err))
		}
		return result, false
	}

	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = c.cache.Delete(ctx, key)
		return result, false
	}
	return result, true
}

// SearchKey derives a stable cache key from the search parameters
func SearchKey(search outbound.ExternalSearch) (string, error) {
	data, err := json.Marshal(search)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return searchKeyPrefix + hex.EncodeToString(sum[:]), nil
}
