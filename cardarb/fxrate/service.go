package fxrate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
)

// Rate is a conversion rate for one day. Provisional rates come from the
// configured fallback table after a provider failure; they are never written
// to the persistent cache.
type Rate struct {
	Value       decimal.Decimal
	Provisional bool
}

// Service resolves daily conversion rates through three layers: an in-memory
// LRU, the fx_rates table, and the external provider. Within one process
// lifetime the same (pair, date) always yields the same value, provisional or
// not.
type Service struct {
	mu        sync.Mutex
	cache     *lru.Cache
	repo      repositories.FxRateRepository
	provider  Provider
	fallbacks map[string]decimal.Decimal
}

func NewService(repo repositories.FxRateRepository, provider Provider, fallbacks map[string]decimal.Decimal) *Service {
	cache, _ := lru.New(config.FxCacheSize)
	return &Service{
		cache:     cache,
		repo:      repo,
		provider:  provider,
		fallbacks: fallbacks,
	}
}

func cacheKey(base, quote string, date time.Time) string {
	return fmt.Sprintf("%s/%s@%s", base, quote, models.ObservationDay(date).Format("2006-01-02"))
}

// RateFor returns the conversion rate from base to quote effective on the
// given date. Identical pairs short-circuit to 1.
func (s *Service) RateFor(ctx context.Context, date time.Time, base, quote string) (Rate, error) {
	if base == quote {
		return Rate{Value: decimal.NewFromInt(1)}, nil
	}

	// Serialized so concurrent workers asking for the same pair cannot race
	// the provider into divergent values.
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey(base, quote, date)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(Rate), nil
	}

	stored, err := s.repo.Get(ctx, base, quote, date)
	if err != nil {
		return Rate{}, fmt.Errorf("fx cache read: %w", err)
	}
	if stored != nil {
		rate := Rate{Value: stored.Rate}
		s.cache.Add(key, rate)
		return rate, nil
	}

	fetched, fetchErr := s.fetchWithRetry(ctx, date, base, quote)
	if fetchErr == nil {
		if err := s.repo.Put(ctx, &models.FxRate{
			BaseCode:      base,
			QuoteCode:     quote,
			Rate:          fetched,
			EffectiveDate: models.ObservationDay(date),
			SourceLabel:   s.provider.Label(),
		}); err != nil {
			return Rate{}, fmt.Errorf("fx cache write: %w", err)
		}
		// Re-read so a concurrent writer that won the write-once race still
		// leaves every process agreeing on the stored value.
		stored, err = s.repo.Get(ctx, base, quote, date)
		if err != nil {
			return Rate{}, fmt.Errorf("fx cache re-read: %w", err)
		}
		value := fetched
		if stored != nil {
			value = stored.Rate
		}
		rate := Rate{Value: value}
		s.cache.Add(key, rate)
		return rate, nil
	}

	fallback, ok := s.fallbacks[base+"/"+quote]
	if !ok {
		return Rate{}, fmt.Errorf("no fallback for %s/%s: %w", base, quote, fetchErr)
	}

	slog.Warn("Using provisional fx rate",
		slog.String("type", "fx"),
		slog.String("pair", base+"/"+quote),
		slog.String("rate", fallback.String()),
		slog.Any("error", fetchErr),
	)

	// Memory-only: a provisional rate pins this process to one value but must
	// not poison the persistent cache for later runs.
	rate := Rate{Value: fallback, Provisional: true}
	s.cache.Add(key, rate)
	return rate, nil
}

func (s *Service) fetchWithRetry(ctx context.Context, date time.Time, base, quote string) (decimal.Decimal, error) {
	var lastErr error
	for attempt := 0; attempt < config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return decimal.Zero, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		value, err := s.provider.FetchRate(ctx, date, base, quote)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}
	return decimal.Zero, lastErr
}
