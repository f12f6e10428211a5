package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
)

// CatalogEntry is one printing in a set catalog, keyed by its universal id.
type CatalogEntry struct {
	UniversalID     string
	CollectorNumber string
	Name            string
}

// SetCatalog lists the printings of a set from an external catalog service.
type SetCatalog interface {
	Printings(ctx context.Context, setCode string) ([]CatalogEntry, error)
}

// CrossRefStats summarizes one cross-reference run.
type CrossRefStats struct {
	SetsProcessed int
	Attached      int
	AlreadySet    int
	NoMatch       int
	Conflicts     int
}

// CrossReferencer attaches universal ids to variants that were created from
// scraped data and so only carry the (set, collector number) tuple.
type CrossReferencer struct {
	variants repositories.CardVariantRepository
	catalog  SetCatalog
}

func NewCrossReferencer(variants repositories.CardVariantRepository, catalog SetCatalog) *CrossReferencer {
	return &CrossReferencer{variants: variants, catalog: catalog}
}

// Run walks the given set codes, matching each variant's collector number
// against the set catalog, raw form first and normalized form second. A
// variant that already carries a different universal id is counted as a
// conflict and left untouched.
func (c *CrossReferencer) Run(ctx context.Context, setCodes []string) (CrossRefStats, error) {
	var stats CrossRefStats

	for _, setCode := range setCodes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		entries, err := c.catalog.Printings(ctx, setCode)
		if err != nil {
			slog.Warn("Set catalog fetch failed",
				slog.String("type", "identity"),
				slog.String("set", setCode),
				slog.Any("error", err),
			)
			continue
		}

		byRaw := make(map[string]CatalogEntry, len(entries))
		byNormalized := make(map[string]CatalogEntry, len(entries))
		for _, e := range entries {
			byRaw[e.CollectorNumber] = e
			byNormalized[models.NormalizeCollectorNumber(e.CollectorNumber)] = e
		}

		variants, err := c.variants.GetBySetCode(ctx, setCode)
		if err != nil {
			return stats, fmt.Errorf("failed to load variants for set %s: %w", setCode, err)
		}

		for _, v := range variants {
			entry, ok := byRaw[v.CollectorNumber]
			if !ok {
				entry, ok = byNormalized[v.CollectorNumberNormalized]
			}
			if !ok {
				stats.NoMatch++
				continue
			}

			if v.UniversalID != "" {
				if v.UniversalID == entry.UniversalID {
					stats.AlreadySet++
				} else {
					stats.Conflicts++
					slog.Warn("Universal id mismatch",
						slog.String("type", "identity"),
						slog.String("set", setCode),
						slog.String("collector_number", v.CollectorNumber),
						slog.String("stored", v.UniversalID),
						slog.String("catalog", entry.UniversalID),
					)
				}
				continue
			}

			if err := c.variants.AttachUniversalID(ctx, v.ID, entry.UniversalID); err != nil {
				if errors.Is(err, repositories.ErrUniversalIDConflict) {
					stats.Conflicts++
					continue
				}
				return stats, fmt.Errorf("failed to attach universal id to variant %d: %w", v.ID, err)
			}
			stats.Attached++
		}

		stats.SetsProcessed++
		slog.Info("Set cross-referenced",
			slog.String("type", "identity"),
			slog.String("set", setCode),
			slog.Int("variants", len(variants)),
			slog.Int("attached", stats.Attached),
		)
	}

	return stats, nil
}
