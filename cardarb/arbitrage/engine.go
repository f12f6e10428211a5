package arbitrage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"github.com/ellavondegurechaff/cardarb/cardarb/fxrate"
	"github.com/shopspring/decimal"
)

// Opportunity is one profitable buy-retail, sell-buylist pair, with every
// money field converted to the requested display currency. Opportunities are
// derived on demand and never persisted.
type Opportunity struct {
	CardVariantID int64
	Name          string
	SetCode       string
	IsFoil        bool

	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Fee       decimal.Decimal
	Profit    decimal.Decimal
	ROI       decimal.Decimal

	BuyVenue  string
	SellVenue string
	Currency  string
}

// Engine joins the latest retail and buylist observations per card and ranks
// the spreads by return on investment.
type Engine struct {
	variants repositories.CardVariantRepository
	history  repositories.PriceHistoryRepository
	fx       *fxrate.Service

	baseCurrency string
	fee          decimal.Decimal
	logger       *slog.Logger
}

func NewEngine(variants repositories.CardVariantRepository, history repositories.PriceHistoryRepository, fx *fxrate.Service, baseCurrency string, fee decimal.Decimal) *Engine {
	return &Engine{
		variants:     variants,
		history:      history,
		fx:           fx,
		baseCurrency: baseCurrency,
		fee:          fee,
		logger:       slog.With(slog.String("type", "arbitrage")),
	}
}

// FindOpportunities computes ranked opportunities for the given variants. A
// card missing either leg is excluded; minROI filters the rest. Passing no
// variant ids scans every tracked card.
func (e *Engine) FindOpportunities(ctx context.Context, variantIDs []int64, minROI decimal.Decimal, displayCurrency string) ([]Opportunity, error) {
	if len(variantIDs) == 0 {
		tracked, err := e.variants.ListTrackedRetail(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tracked variants: %w", err)
		}
		for _, v := range tracked {
			variantIDs = append(variantIDs, v.ID)
		}
	}
	if len(variantIDs) == 0 {
		return nil, nil
	}

	buyLegs, err := e.history.LatestBySource(ctx, variantIDs, models.SourceRetail)
	if err != nil {
		return nil, fmt.Errorf("failed to load retail legs: %w", err)
	}
	sellLegs, err := e.history.LatestBySource(ctx, variantIDs, models.SourceBuylist)
	if err != nil {
		return nil, fmt.Errorf("failed to load buylist legs: %w", err)
	}

	if displayCurrency == "" {
		displayCurrency = e.baseCurrency
	}
	// One hop from base to display; every stored converted price is already
	// in base currency.
	displayRate, err := e.fx.RateFor(ctx, time.Now().UTC(), e.baseCurrency, displayCurrency)
	if err != nil {
		return nil, fmt.Errorf("display conversion: %w", err)
	}

	var opportunities []Opportunity
	for _, id := range variantIDs {
		buy, hasBuy := buyLegs[id]
		sell, hasSell := sellLegs[id]
		if !hasBuy || !hasSell {
			continue
		}

		buyPrice := buy.PriceConverted
		sellPrice := sell.PriceConverted

		profit := sellPrice.Sub(buyPrice).Sub(e.fee)
		denominator := buyPrice.Add(e.fee)
		if denominator.LessThanOrEqual(decimal.Zero) {
			continue
		}
		roi := profit.Div(denominator)

		if roi.LessThan(minROI) {
			continue
		}

		variant, err := e.variants.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load variant %d: %w", id, err)
		}
		if variant == nil {
			continue
		}

		opportunities = append(opportunities, Opportunity{
			CardVariantID: id,
			Name:          variant.Name,
			SetCode:       variant.SetCode,
			IsFoil:        variant.IsFoil,
			BuyPrice:      buyPrice.Mul(displayRate.Value),
			SellPrice:     sellPrice.Mul(displayRate.Value),
			Fee:           e.fee.Mul(displayRate.Value),
			Profit:        profit.Mul(displayRate.Value),
			ROI:           roi,
			BuyVenue:      string(models.SourceRetail),
			SellVenue:     string(models.SourceBuylist),
			Currency:      displayCurrency,
		})
	}

	rank(opportunities)

	e.logger.Info("Opportunity scan finished",
		slog.Int("candidates", len(variantIDs)),
		slog.Int("opportunities", len(opportunities)),
		slog.String("currency", displayCurrency),
	)
	return opportunities, nil
}

// rank orders by ROI descending, then absolute profit descending, then name
// ascending. The full tiebreak chain keeps pagination stable across runs.
func rank(opportunities []Opportunity) {
	sort.SliceStable(opportunities, func(i, j int) bool {
		a, b := opportunities[i], opportunities[j]
		if !a.ROI.Equal(b.ROI) {
			return a.ROI.GreaterThan(b.ROI)
		}
		if absA, absB := a.Profit.Abs(), b.Profit.Abs(); !absA.Equal(absB) {
			return absA.GreaterThan(absB)
		}
		return a.Name < b.Name
	})
}
