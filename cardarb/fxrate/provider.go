package fxrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/shopspring/decimal"
)

// ErrFxUnavailable is returned when no live rate could be obtained from the
// provider. Callers fall back to a provisional constant.
var ErrFxUnavailable = errors.New("fxrate: live rate unavailable")

// Provider fetches the conversion rate for a currency pair on a given day.
type Provider interface {
	FetchRate(ctx context.Context, date time.Time, base, quote string) (decimal.Decimal, error)
	Label() string
}

const defaultProviderBaseURL = "https://open.er-api.com/v6"

// HTTPProvider queries an exchange-rate API that returns a full rates table
// for a base currency.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	if baseURL == "" {
		baseURL = defaultProviderBaseURL
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: config.FxFetchTimeout},
	}
}

func (p *HTTPProvider) Label() string { return "er-api" }

// FetchRate returns the rate the API currently serves. The endpoint only
// publishes the latest table, so the requested date is not sent; the caller
// persists the result under that date, which pins it for replays.
func (p *HTTPProvider) FetchRate(ctx context.Context, _ time.Time, base, quote string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/latest/%s", p.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrFxUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: provider returned status %d", ErrFxUnavailable, resp.StatusCode)
	}

	var payload struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad provider response: %v", ErrFxUnavailable, err)
	}
	if payload.Result != "success" {
		return decimal.Zero, fmt.Errorf("%w: provider result %q", ErrFxUnavailable, payload.Result)
	}

	raw, ok := payload.Rates[quote]
	if !ok || raw <= 0 {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s/%s", ErrFxUnavailable, base, quote)
	}

	return decimal.NewFromFloat(raw), nil
}

// retryDelay spaces out repeated provider calls on transient failure.
const retryDelay = 500 * time.Millisecond
