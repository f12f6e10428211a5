package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
)

// buylistItem mirrors what the page evaluation extracts per result row.
type buylistItem struct {
	Name         string `json:"name"`
	SetRaw       string `json:"set_raw"`
	CollectorRaw string `json:"collector_raw"`
	PriceRaw     string `json:"price_raw"`
	IsFoil       bool   `json:"is_foil"`
}

const buylistExtractJS = `(() => {
	const items = document.querySelectorAll('.itemContentWrapper');
	const data = [];
	items.forEach((item) => {
		const nameEl = item.querySelector('.productDetailTitle a');
		const setEl = item.querySelector('.productDetailSet');
		const collectorEl = item.querySelector('.collectorNumber');
		const priceEl = item.querySelector('.usdSellPrice .sellDollarAmount');
		const foilEl = item.querySelector('.foil');
		if (nameEl && setEl && collectorEl && priceEl) {
			data.push({
				name: nameEl.textContent.trim(),
				set_raw: setEl.textContent.trim(),
				collector_raw: collectorEl.textContent.trim(),
				price_raw: priceEl.textContent.trim(),
				is_foil: !!foilEl,
			});
		}
	});
	return data;
})()`

const blockProbeJS = `document.body.innerText.includes('Cloudflare') || document.body.innerText.includes('Verify you are human')`

// BuylistAdapter scrapes a buylist search-results page. Prices are quoted in
// USD; a page with zero items is probed for the venue's bot-detection
// interstitial before being reported as empty.
type BuylistAdapter struct {
	logger *slog.Logger
}

func NewBuylistAdapter() *BuylistAdapter {
	return &BuylistAdapter{
		logger: slog.With(slog.String("type", "scrape"), slog.String("adapter", "buylist")),
	}
}

func (a *BuylistAdapter) Source() models.Source { return models.SourceBuylist }

func (a *BuylistAdapter) Fetch(ctx context.Context, target Target) ([]RawObservation, error) {
	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, config.NavigationTimeout)
	defer cancel()

	var items []buylistItem
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(target.URL),
		chromedp.WaitVisible(".itemContentWrapper", chromedp.ByQuery),
		chromedp.Evaluate(buylistExtractJS, &items),
	)
	if err != nil {
		// WaitVisible timing out is indistinguishable from a layout change
		// here; check for the interstitial before classifying.
		if blocked, probeErr := a.probeBlock(ctx, target.URL); probeErr == nil && blocked {
			return nil, &BlockedError{URL: target.URL, Indicator: "bot-detection interstitial"}
		}
		return nil, &NetworkError{URL: target.URL, Err: err}
	}

	if len(items) == 0 {
		a.logger.Warn("No items on buylist page", slog.String("url", target.URL))
		return nil, &NotFoundError{URL: target.URL}
	}

	observedAt := time.Now().UTC()
	observations := make([]RawObservation, 0, len(items))
	for _, item := range items {
		observations = append(observations, RawObservation{
			Reference: identity.Reference{
				Name:            cleanCardName(item.Name),
				CollectorNumber: extractCollectorNumber(item.CollectorRaw),
				IsFoil:          item.IsFoil,
				SetHint:         cleanSetName(item.SetRaw),
			},
			Source:     models.SourceBuylist,
			PriceType:  models.PriceTypeSell,
			PriceText:  item.PriceRaw,
			Currency:   "USD",
			ObservedAt: observedAt,
			SetName:    cleanSetName(item.SetRaw),
			SourceURL:  target.URL,
		})
	}

	a.logger.Info("Buylist page scraped",
		slog.String("url", target.URL),
		slog.Int("items", len(observations)),
	)
	return observations, nil
}

// probeBlock re-runs a lightweight evaluation against the already loaded tab
// to look for the anti-automation text.
func (a *BuylistAdapter) probeBlock(ctx context.Context, url string) (bool, error) {
	probeCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	probeCtx, cancel = context.WithTimeout(probeCtx, config.SelectorTimeout)
	defer cancel()

	var blocked bool
	err := chromedp.Run(probeCtx,
		chromedp.Navigate(url),
		chromedp.Evaluate(blockProbeJS, &blocked),
	)
	return blocked, err
}

// cleanCardName strips venue-specific suffixes from a result row title.
func cleanCardName(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range []string{"(Foil)", "(FOIL)", "(foil)"} {
		name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
	}
	return name
}

// cleanSetName drops rarity annotations the venue appends to set names,
// e.g. "Commander Legends (U)".
func cleanSetName(set string) string {
	set = strings.TrimSpace(set)
	if i := strings.LastIndex(set, "("); i > 0 {
		set = strings.TrimSpace(set[:i])
	}
	return set
}

// extractCollectorNumber pulls the digits-and-letters token out of a
// collector number cell like "#361" or "Collector #0361".
func extractCollectorNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "#"); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.TrimSpace(raw)
}
