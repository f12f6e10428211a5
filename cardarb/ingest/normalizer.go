package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"github.com/ellavondegurechaff/cardarb/cardarb/fxrate"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
	"github.com/ellavondegurechaff/cardarb/cardarb/sources"
	"github.com/shopspring/decimal"
)

// NormalizerConfig controls normalization policy per source.
type NormalizerConfig struct {
	BaseCurrency   string
	TransactionFee decimal.Decimal
	// CreateOnMiss lists the sources allowed to create a new variant when a
	// reference resolves to nothing. The wholesale feed is never in this set;
	// it may only attach prices to variants that already exist.
	CreateOnMiss map[models.Source]bool
}

// Normalizer turns raw source observations into storable price observations:
// price text parsing, identity resolution, currency conversion and metadata
// refresh.
type Normalizer struct {
	cfg      NormalizerConfig
	resolver *identity.Resolver
	variants repositories.CardVariantRepository
	fx       *fxrate.Service
	logger   *slog.Logger
}

func NewNormalizer(cfg NormalizerConfig, resolver *identity.Resolver, variants repositories.CardVariantRepository, fx *fxrate.Service) *Normalizer {
	return &Normalizer{
		cfg:      cfg,
		resolver: resolver,
		variants: variants,
		fx:       fx,
		logger:   slog.With(slog.String("type", "ingest")),
	}
}

// Normalize converts one raw observation. The returned errors wrap the
// package sentinels so the pipeline can sort failures per class.
func (n *Normalizer) Normalize(ctx context.Context, raw sources.RawObservation) (*models.PriceObservation, error) {
	price, err := ParseMoney(raw.PriceText)
	if err != nil {
		return nil, err
	}

	variant, err := n.resolveVariant(ctx, raw)
	if err != nil {
		return nil, err
	}

	if variant.IsFoil != raw.Reference.IsFoil {
		return nil, fmt.Errorf("%w: variant %d is_foil=%v, observation is_foil=%v",
			ErrFinishMismatch, variant.ID, variant.IsFoil, raw.Reference.IsFoil)
	}

	observedAt := raw.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	// The observation's own date picks the rate, so replayed history converts
	// with the rate of its day, not today's.
	rate, err := n.fx.RateFor(ctx, observedAt, raw.Currency, n.cfg.BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("fx conversion for %s: %w", raw.Currency, err)
	}

	converted := price.Mul(rate.Value)
	if raw.Currency != n.cfg.BaseCurrency {
		// Cross-currency acquisitions carry the flat transaction fee; the raw
		// price is stored untouched.
		converted = converted.Add(n.cfg.TransactionFee)
	}

	n.refreshMetadata(ctx, variant, raw)

	return &models.PriceObservation{
		CardVariantID:  variant.ID,
		Source:         raw.Source,
		PriceType:      raw.PriceType,
		PriceRaw:       price,
		Currency:       raw.Currency,
		FxRate:         rate.Value,
		PriceConverted: converted,
		ObservedAt:     observedAt,
		ObservedDay:    models.ObservationDay(observedAt),
		IngestedAt:     time.Now().UTC(),
	}, nil
}

func (n *Normalizer) resolveVariant(ctx context.Context, raw sources.RawObservation) (*models.CardVariant, error) {
	if raw.VariantID != 0 {
		variant, err := n.variants.GetByID(ctx, raw.VariantID)
		if err != nil {
			return nil, fmt.Errorf("variant load: %w", err)
		}
		if variant == nil {
			return nil, fmt.Errorf("%w: bound variant %d missing", ErrUnresolvedReference, raw.VariantID)
		}
		return variant, nil
	}

	id, err := n.resolver.Resolve(ctx, raw.Reference)
	if err == nil {
		variant, loadErr := n.variants.GetByID(ctx, id)
		if loadErr != nil {
			return nil, fmt.Errorf("variant load: %w", loadErr)
		}
		if variant == nil {
			return nil, fmt.Errorf("%w: resolved variant %d missing", ErrUnresolvedReference, id)
		}
		return variant, nil
	}

	var conflict *identity.ConflictError
	if errors.As(err, &conflict) {
		// Identity divergence is never papered over.
		return nil, err
	}
	if !errors.Is(err, identity.ErrUnmatched) {
		return nil, err
	}

	if !n.cfg.CreateOnMiss[raw.Source] {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, raw.Reference)
	}
	return n.createVariant(ctx, raw)
}

// createVariant materializes a variant from what the source told us. Only
// sources configured create-on-miss reach this.
func (n *Normalizer) createVariant(ctx context.Context, raw sources.RawObservation) (*models.CardVariant, error) {
	ref := raw.Reference
	if ref.Name == "" {
		return nil, fmt.Errorf("%w: cannot create variant without a name", ErrUnresolvedReference)
	}

	variant := &models.CardVariant{
		Name:            ref.Name,
		SetName:         raw.SetName,
		SetCode:         ref.SetCode,
		CollectorNumber: ref.CollectorNumber,
		IsFoil:          ref.IsFoil,
		UniversalID:     ref.UniversalID,
		ImageURL:        raw.ImageURL,
		Tracked:         true,
	}
	if raw.Source == models.SourceBuylist {
		variant.BuylistURL = raw.SourceURL
	}

	if err := n.variants.Create(ctx, variant); err != nil {
		return nil, fmt.Errorf("variant create: %w", err)
	}

	n.logger.Info("Variant created on miss",
		slog.Int64("variant_id", variant.ID),
		slog.String("name", variant.Name),
		slog.String("source", string(raw.Source)),
	)
	return variant, nil
}

// refreshMetadata fills gaps in the stored variant from what the source
// exposed. Failures only log; the price observation still counts.
func (n *Normalizer) refreshMetadata(ctx context.Context, variant *models.CardVariant, raw sources.RawObservation) {
	var buylistURL, retailURL string
	switch raw.Source {
	case models.SourceBuylist:
		buylistURL = raw.SourceURL
	case models.SourceRetail:
		retailURL = raw.SourceURL
	}

	if raw.ImageURL == "" && buylistURL == "" && retailURL == "" {
		return
	}

	if err := n.variants.RefreshMetadata(ctx, variant.ID, "", raw.ImageURL, buylistURL, retailURL); err != nil {
		n.logger.Warn("Metadata refresh failed",
			slog.Int64("variant_id", variant.ID),
			slog.Any("error", err),
		)
	}
}
