// Package catalog bulk-loads the local recipe catalog from the external catalog
package catalog

import (
	"context"
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"go.uber.org/zap"
)

// DefaultBatchSize is the page size requested per external call
const DefaultBatchSize = 100

// LoadOptions controls a bulk load
type LoadOptions struct {
	Offset    int    // first result to request
	Max       int    // stop after this many imports; 0 means no limit
	Sort      string // external sort order, e.g. "popularity"
	BatchSize int
}

// LoadStats summarizes a bulk load
type LoadStats struct {
	Imported   int
	Duplicates int
	Failed     int
	Calls      int
	NextOffset int // resume point for a later load
	Total      int // total results reported by the external catalog
}

// Loader pages through the external catalog and imports every result
type Loader struct {
	external outbound.ExternalRecipeCatalog
	catalog  outbound.RecipeCatalog
	logger   *zap.Logger
}

// NewLoader creates a new loader
func NewLoader(external outbound.ExternalRecipeCatalog, catalog outbound.RecipeCatalog, logger *zap.Logger) *Loader {
	return &Loader{
		external: external,
		catalog:  catalog,
		logger:   logger.Named("catalog-loader"),
	}
}

// Load imports pages until the external catalog is exhausted, Max is
// reached or ctx is done. Individual import failures are counted and
// skipped; a failed search stops the load and is returned with the stats
// gathered so far.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (LoadStats, error) {
	batch := opts.BatchSize
	if batch <= 0 || batch > DefaultBatchSize {
		batch = DefaultBatchSize
	}

	stats := LoadStats{NextOffset: opts.Offset}
	seen := make(map[int64]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result, err := l.external.Search(ctx, outbound.ExternalSearch{
			Count:  batch,
			Offset: stats.NextOffset,
			Sort:   opts.Sort,
		})
		stats.Calls++
		if err != nil {
			return stats, errors.NewExternalServiceError("external recipe catalog",
				fmt.Errorf("search at offset %d: %w", stats.NextOffset, err)).
				WithMetadata("offset", stats.NextOffset)
		}
		stats.Total = result.TotalResults

		if len(result.Results) == 0 {
			l.logger.Info("No more recipes available")
			return stats, nil
		}

		for _, payload := range result.Results {
			if _, dup := seen[payload.ExternalID]; dup || payload.ExternalID == 0 {
				stats.Duplicates++
				continue
			}
			seen[payload.ExternalID] = struct{}{}

			if _, err := l.catalog.ImportOrGetRecipe(ctx, payload); err != nil {
				stats.Failed++
				l.logger.Warn("Failed to import recipe",
					zap.Int64("external_id", payload.ExternalID),
					zap.Error(err))
				continue
			}
			stats.Imported++

			if opts.Max > 0 && stats.Imported >= opts.Max {
				stats.NextOffset += len(result.Results)
				return stats, nil
			}
		}

		stats.NextOffset += len(result.Results)
		l.logger.Info("Batch completed",
			zap.Int("batch", stats.Calls),
			zap.Int("imported", stats.Imported),
			zap.Int("next_offset", stats.NextOffset),
			zap.Int("total_results", stats.Total))

		if stats.NextOffset >= result.TotalResults || len(result.Results) < batch {
			return stats, nil
		}
	}
}
