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

// FxRateRepository is the persistent layer of the daily rate cache. Rows are
// write-once: the first rate recorded for a (pair, date) wins for the rest of
// that date, so every conversion in a day uses the same rate.
type FxRateRepository interface {
	Get(ctx context.Context, base, quote string, date time.Time) (*models.FxRate, error)
	Put(ctx context.Context, rate *models.FxRate) error
}

type fxRateRepository struct {
	db *bun.DB
}

func NewFxRateRepository(db *bun.DB) FxRateRepository {
	return &fxRateRepository{db: db}
}

func (r *fxRateRepository) Get(ctx context.Context, base, quote string, date time.Time) (*models.FxRate, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	rate := new(models.FxRate)
	err := r.db.NewSelect().
		Model(rate).
		Where("base_code = ?", base).
		Where("quote_code = ?", quote).
		Where("effective_date = ?", models.ObservationDay(date)).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fx rate %s/%s: %w", base, quote, err)
	}
	return rate, nil
}

// Put stores a rate without overwriting. A concurrent writer losing the race
// is not an error; the caller re-reads to pick up the winning row.
func (r *fxRateRepository) Put(ctx context.Context, rate *models.FxRate) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	rate.EffectiveDate = models.ObservationDay(rate.EffectiveDate)
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NewInsert().
		Model(rate).
		On("CONFLICT (base_code, quote_code, effective_date) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store fx rate %s/%s: %w", rate.BaseCode, rate.QuoteCode, err)
	}
	return nil
}
