package fxrate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	repomock "github.com/ellavondegurechaff/cardarb/cardarb/database/repositories/mock"
	"github.com/ellavondegurechaff/cardarb/cardarb/fxrate"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type stubProvider struct {
	rate    decimal.Decimal
	err     error
	calls   int
	gotDate time.Time
}

func (p *stubProvider) FetchRate(ctx context.Context, date time.Time, base, quote string) (decimal.Decimal, error) {
	p.calls++
	p.gotDate = date
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return p.rate, nil
}

func (p *stubProvider) Label() string { return "stub" }

var testDate = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func TestService_RateFor_FetchesAndPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)
	provider := &stubProvider{rate: decimal.RequireFromString("5.0")}

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).Return(nil, nil),
		repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).
			Return(&models.FxRate{Rate: decimal.RequireFromString("5.0")}, nil),
	)

	s := fxrate.NewService(repo, provider, nil)
	rate, err := s.RateFor(context.Background(), testDate, "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() error = %v", err)
	}
	if !rate.Value.Equal(decimal.RequireFromString("5.0")) || rate.Provisional {
		t.Errorf("RateFor() = %+v, want 5.0 non-provisional", rate)
	}
	// The observation's date travels to the provider, so a back-dated replay
	// asks for its own day rather than today's.
	if !provider.gotDate.Equal(testDate) {
		t.Errorf("provider fetched for %v, want the observation date %v", provider.gotDate, testDate)
	}
}

func TestService_RateFor_MemoryDeterminism(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)
	provider := &stubProvider{rate: decimal.RequireFromString("5.25")}

	// One fetch cycle total; the second call must come from memory.
	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).Return(nil, nil),
		repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).
			Return(&models.FxRate{Rate: decimal.RequireFromString("5.25")}, nil),
	)

	s := fxrate.NewService(repo, provider, nil)
	first, err := s.RateFor(context.Background(), testDate, "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() error = %v", err)
	}
	second, err := s.RateFor(context.Background(), testDate.Add(3*time.Hour), "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() second call error = %v", err)
	}
	if !first.Value.Equal(second.Value) {
		t.Errorf("same pair and day returned %s then %s", first.Value, second.Value)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestService_RateFor_PersistentCacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)
	provider := &stubProvider{rate: decimal.RequireFromString("9.99")}

	repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).
		Return(&models.FxRate{Rate: decimal.RequireFromString("4.80")}, nil)

	s := fxrate.NewService(repo, provider, nil)
	rate, err := s.RateFor(context.Background(), testDate, "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() error = %v", err)
	}
	if !rate.Value.Equal(decimal.RequireFromString("4.80")) {
		t.Errorf("RateFor() = %s, want the stored 4.80", rate.Value)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times, want 0", provider.calls)
	}
}

func TestService_RateFor_ProvisionalFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)
	provider := &stubProvider{err: fxrate.ErrFxUnavailable}

	// Put must never be called for a provisional rate.
	repo.EXPECT().Get(gomock.Any(), "USD", "BRL", gomock.Any()).Return(nil, nil)

	fallbacks := map[string]decimal.Decimal{
		"USD/BRL": decimal.RequireFromString("5.00"),
	}

	s := fxrate.NewService(repo, provider, fallbacks)
	rate, err := s.RateFor(context.Background(), testDate, "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() error = %v", err)
	}
	if !rate.Provisional {
		t.Error("RateFor() rate not marked provisional")
	}
	if !rate.Value.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("RateFor() = %s, want fallback 5.00", rate.Value)
	}

	// Second call comes from memory; the provider is not retried this run.
	fetchCalls := provider.calls
	again, err := s.RateFor(context.Background(), testDate, "USD", "BRL")
	if err != nil {
		t.Fatalf("RateFor() second call error = %v", err)
	}
	if !again.Value.Equal(rate.Value) || !again.Provisional {
		t.Errorf("second call = %+v, want identical provisional rate", again)
	}
	if provider.calls != fetchCalls {
		t.Errorf("provider retried after provisional caching")
	}
}

func TestService_RateFor_NoFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)
	provider := &stubProvider{err: errors.New("connection refused")}

	repo.EXPECT().Get(gomock.Any(), "EUR", "BRL", gomock.Any()).Return(nil, nil)

	s := fxrate.NewService(repo, provider, nil)
	if _, err := s.RateFor(context.Background(), testDate, "EUR", "BRL"); err == nil {
		t.Error("RateFor() with no fallback succeeded, want error")
	}
}

func TestService_RateFor_IdenticalPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockFxRateRepository(ctrl)

	s := fxrate.NewService(repo, &stubProvider{}, nil)
	rate, err := s.RateFor(context.Background(), testDate, "BRL", "BRL")
	if err != nil {
		t.Fatalf("RateFor() error = %v", err)
	}
	if !rate.Value.Equal(decimal.NewFromInt(1)) {
		t.Errorf("RateFor() = %s, want 1", rate.Value)
	}
}
