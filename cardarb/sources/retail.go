package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
)

// The marketplace page stacks two price blocks inside the container: index 0
// holds the normal printing, index 1 the foil. The cheapest listing sits in
// the block's ".min .price" cell.
const retailExtractJS = `((wantFoil) => {
	const container = document.querySelector('#container-price-mkp-card');
	if (!container) return '';
	const priceBlocks = container.querySelectorAll('.bg-light-gray.container-price-mkp');
	const blockIndex = wantFoil ? 1 : 0;
	if (blockIndex >= priceBlocks.length) return '';
	const minPriceEl = priceBlocks[blockIndex].querySelector('.min .price');
	return minPriceEl ? minPriceEl.textContent.trim() : '';
})`

// RetailAdapter scrapes a single marketplace card page. Prices are quoted in
// BRL.
type RetailAdapter struct {
	logger *slog.Logger
}

func NewRetailAdapter() *RetailAdapter {
	return &RetailAdapter{
		logger: slog.With(slog.String("type", "scrape"), slog.String("adapter", "retail")),
	}
}

func (a *RetailAdapter) Source() models.Source { return models.SourceRetail }

func (a *RetailAdapter) Fetch(ctx context.Context, target Target) ([]RawObservation, error) {
	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, config.NavigationTimeout)
	defer cancel()

	foilArg := "false"
	if target.IsFoil {
		foilArg = "true"
	}

	var priceText string
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(target.URL),
		chromedp.WaitVisible("#container-price-mkp-card", chromedp.ByID),
		chromedp.Evaluate(retailExtractJS+"("+foilArg+")", &priceText),
	)
	if err != nil {
		return nil, &NetworkError{URL: target.URL, Err: err}
	}

	if priceText == "" {
		a.logger.Warn("No price block for printing",
			slog.String("url", target.URL),
			slog.Bool("foil", target.IsFoil),
		)
		return nil, &NotFoundError{URL: target.URL}
	}

	a.logger.Info("Retail price scraped",
		slog.String("url", target.URL),
		slog.String("price", priceText),
	)

	return []RawObservation{{
		VariantID: target.VariantID,
		Reference: identity.Reference{
			Name:   target.Name,
			IsFoil: target.IsFoil,
		},
		Source:     models.SourceRetail,
		PriceType:  models.PriceTypeBuy,
		PriceText:  priceText,
		Currency:   "BRL",
		ObservedAt: time.Now().UTC(),
		SourceURL:  target.URL,
	}}, nil
}
