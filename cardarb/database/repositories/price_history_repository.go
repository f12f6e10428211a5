package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/uptrace/bun"
)

// RecordResult reports what Record did with an observation.
type RecordResult int

const (
	RecordNoOp RecordResult = iota
	RecordInserted
	RecordUpdated
)

// DayKey is the natural key of the per-day dedup invariant.
type DayKey struct {
	CardVariantID int64
	Source        models.Source
	Day           time.Time
}

// PriceHistoryRepository is the append-only price ledger. All price writes in
// the application go through Record/RecordBatch; no other component issues
// conditional writes against price_observations.
type PriceHistoryRepository interface {
	Record(ctx context.Context, obs *models.PriceObservation) (RecordResult, error)
	RecordBatch(ctx context.Context, observations []*models.PriceObservation) (inserted, updated int, err error)
	ExistingDayKeys(ctx context.Context, source models.Source, day time.Time) (map[int64]struct{}, error)
	HistoryFor(ctx context.Context, cardVariantID int64, source models.Source, from, to time.Time) ([]*models.PriceObservation, error)
	LatestBySource(ctx context.Context, cardVariantIDs []int64, source models.Source) (map[int64]*models.PriceObservation, error)
}

type priceHistoryRepository struct {
	db *bun.DB
}

func NewPriceHistoryRepository(db *bun.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// Record upserts one observation under the (card variant, source, UTC day)
// natural key. A row already present for the same day is updated in place, so
// replaying a day's scrape converges to one row holding the latest value.
// Prior-day rows are never touched.
func (r *priceHistoryRepository) Record(ctx context.Context, obs *models.PriceObservation) (RecordResult, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	stampObservation(obs)

	existing := new(models.PriceObservation)
	err := r.db.NewSelect().
		Model(existing).
		Column("id").
		Where("card_variant_id = ?", obs.CardVariantID).
		Where("source = ?", obs.Source).
		Where("observed_day = ?", obs.ObservedDay).
		Scan(ctx)

	switch {
	case err == nil:
		obs.ID = existing.ID
		_, err = r.db.NewUpdate().
			Model(obs).
			Column("price_type", "price_raw", "currency", "fx_rate", "price_converted", "observed_at", "ingested_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return RecordNoOp, fmt.Errorf("failed to update same-day observation: %w", err)
		}
		return RecordUpdated, nil

	case errors.Is(err, sql.ErrNoRows):
		// Insert through the natural-key conflict path so a concurrent run
		// that beat us to the insert still converges to a single row.
		if err := r.upsert(ctx, obs); err != nil {
			return RecordNoOp, err
		}
		return RecordInserted, nil

	default:
		return RecordNoOp, fmt.Errorf("failed to check existing observation: %w", err)
	}
}

// RecordBatch records a set of observations, fetching the day's existing
// keys once per (source, day) group instead of selecting per row. Every write
// goes through the natural-key conflict path, so the invariant holds even
// when the pre-fetched view races a concurrent run.
func (r *priceHistoryRepository) RecordBatch(ctx context.Context, observations []*models.PriceObservation) (int, int, error) {
	if len(observations) == 0 {
		return 0, 0, nil
	}

	type group struct {
		source models.Source
		day    time.Time
	}
	prefetched := make(map[group]map[int64]struct{})

	var inserted, updated int
	for _, obs := range observations {
		stampObservation(obs)

		g := group{source: obs.Source, day: obs.ObservedDay}
		seen, ok := prefetched[g]
		if !ok {
			var err error
			seen, err = r.ExistingDayKeys(ctx, obs.Source, obs.ObservedDay)
			if err != nil {
				return inserted, updated, fmt.Errorf("failed to prefetch existing day keys: %w", err)
			}
			prefetched[g] = seen
		}

		if err := r.upsert(ctx, obs); err != nil {
			return inserted, updated, err
		}
		if recordOutcome(seen, obs.CardVariantID) == RecordUpdated {
			updated++
		} else {
			inserted++
		}
	}

	return inserted, updated, nil
}

// stampObservation derives the natural-key day from the observation time and
// fills the ingest timestamp. Two observations inside the same UTC day stamp
// to the same key and so converge to one row.
func stampObservation(obs *models.PriceObservation) {
	obs.ObservedDay = models.ObservationDay(obs.ObservedAt)
	if obs.IngestedAt.IsZero() {
		obs.IngestedAt = time.Now().UTC()
	}
}

// recordOutcome classifies one upsert against the day keys visible before the
// write and claims the key for later observations of the same batch.
func recordOutcome(seen map[int64]struct{}, cardVariantID int64) RecordResult {
	if _, exists := seen[cardVariantID]; exists {
		return RecordUpdated
	}
	seen[cardVariantID] = struct{}{}
	return RecordInserted
}

func (r *priceHistoryRepository) upsert(ctx context.Context, obs *models.PriceObservation) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(obs).
		On("CONFLICT (card_variant_id, source, observed_day) DO UPDATE").
		Set("price_type = EXCLUDED.price_type").
		Set("price_raw = EXCLUDED.price_raw").
		Set("currency = EXCLUDED.currency").
		Set("fx_rate = EXCLUDED.fx_rate").
		Set("price_converted = EXCLUDED.price_converted").
		Set("observed_at = EXCLUDED.observed_at").
		Set("ingested_at = EXCLUDED.ingested_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert observation: %w", err)
	}
	return nil
}

// ExistingDayKeys returns the variant ids that already have an observation
// for the given source and day.
func (r *priceHistoryRepository) ExistingDayKeys(ctx context.Context, source models.Source, day time.Time) (map[int64]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	var ids []int64
	err := r.db.NewSelect().
		Model((*models.PriceObservation)(nil)).
		Column("card_variant_id").
		Where("source = ?", source).
		Where("observed_day = ?", models.ObservationDay(day)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	keys := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		keys[id] = struct{}{}
	}
	return keys, nil
}

// HistoryFor returns the observations for one variant and source in the date
// range, oldest first.
func (r *priceHistoryRepository) HistoryFor(ctx context.Context, cardVariantID int64, source models.Source, from, to time.Time) ([]*models.PriceObservation, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var observations []*models.PriceObservation
	err := r.db.NewSelect().
		Model(&observations).
		Where("card_variant_id = ?", cardVariantID).
		Where("source = ?", source).
		Where("observed_day >= ?", models.ObservationDay(from)).
		Where("observed_day <= ?", models.ObservationDay(to)).
		Order("observed_day ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}

	return observations, nil
}

// LatestBySource returns the most recent observation per variant for one
// source, for the arbitrage join.
func (r *priceHistoryRepository) LatestBySource(ctx context.Context, cardVariantIDs []int64, source models.Source) (map[int64]*models.PriceObservation, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	if len(cardVariantIDs) == 0 {
		return map[int64]*models.PriceObservation{}, nil
	}

	var observations []*models.PriceObservation
	err := r.db.NewSelect().
		Model(&observations).
		Where("card_variant_id IN (?)", bun.In(cardVariantIDs)).
		Where("source = ?", source).
		DistinctOn("card_variant_id").
		Order("card_variant_id", "observed_day DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest %s observations: %w", source, err)
	}

	latest := make(map[int64]*models.PriceObservation, len(observations))
	for _, obs := range observations {
		latest[obs.CardVariantID] = obs
	}
	return latest, nil
}
