package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	repomock "github.com/ellavondegurechaff/cardarb/cardarb/database/repositories/mock"
	"github.com/ellavondegurechaff/cardarb/cardarb/fxrate"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
	"github.com/ellavondegurechaff/cardarb/cardarb/ingest"
	"github.com/ellavondegurechaff/cardarb/cardarb/sources"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type fixedProvider struct{ rate decimal.Decimal }

func (p fixedProvider) FetchRate(context.Context, time.Time, string, string) (decimal.Decimal, error) {
	return p.rate, nil
}

func (p fixedProvider) Label() string { return "fixed" }

var observedAt = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testConfig() ingest.NormalizerConfig {
	return ingest.NormalizerConfig{
		BaseCurrency:   "BRL",
		TransactionFee: decimal.RequireFromString("0.30"),
		CreateOnMiss: map[models.Source]bool{
			models.SourceBuylist: true,
		},
	}
}

// fxServiceAt returns a rate service whose persistent cache already holds the
// given USD/BRL rate for the observation day.
func fxServiceAt(ctrl *gomock.Controller, rate string) *fxrate.Service {
	fxRepo := repomock.NewMockFxRateRepository(ctrl)
	fxRepo.EXPECT().
		Get(gomock.Any(), "USD", "BRL", gomock.Any()).
		Return(&models.FxRate{Rate: decimal.RequireFromString(rate)}, nil).
		AnyTimes()
	return fxrate.NewService(fxRepo, fixedProvider{}, nil)
}

func TestNormalizer_Normalize_ConvertsWithFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	variants.EXPECT().
		GetByTuple(gomock.Any(), "neo", "361", false).
		Return(&models.CardVariant{ID: 7}, nil)
	variants.EXPECT().
		GetByID(gomock.Any(), int64(7)).
		Return(&models.CardVariant{ID: 7, IsFoil: false}, nil)

	n := ingest.NewNormalizer(testConfig(), identity.NewResolver(variants, nil), variants, fxServiceAt(ctrl, "5.00"))

	obs, err := n.Normalize(context.Background(), sources.RawObservation{
		Reference:  identity.Reference{SetCode: "neo", CollectorNumber: "361"},
		Source:     models.SourceBuylist,
		PriceType:  models.PriceTypeSell,
		PriceText:  "$3.50",
		Currency:   "USD",
		ObservedAt: observedAt,
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if !obs.PriceRaw.Equal(decimal.RequireFromString("3.50")) {
		t.Errorf("PriceRaw = %s, want 3.50", obs.PriceRaw)
	}
	if !obs.PriceConverted.Equal(decimal.RequireFromString("17.80")) {
		t.Errorf("PriceConverted = %s, want 17.80 (3.50 * 5.00 + 0.30)", obs.PriceConverted)
	}
	if !obs.ObservedDay.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ObservedDay = %v, want 2024-06-15", obs.ObservedDay)
	}
}

func TestNormalizer_Normalize_BaseCurrencyNoFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	variants.EXPECT().
		GetByID(gomock.Any(), int64(3)).
		Return(&models.CardVariant{ID: 3, IsFoil: true, RetailURL: "https://example.com/card"}, nil)
	variants.EXPECT().
		RefreshMetadata(gomock.Any(), int64(3), "", "", "", "https://example.com/card").
		Return(nil)

	fxRepo := repomock.NewMockFxRateRepository(ctrl)
	n := ingest.NewNormalizer(testConfig(), nil, variants, fxrate.NewService(fxRepo, fixedProvider{}, nil))

	obs, err := n.Normalize(context.Background(), sources.RawObservation{
		VariantID:  3,
		Reference:  identity.Reference{IsFoil: true},
		Source:     models.SourceRetail,
		PriceType:  models.PriceTypeBuy,
		PriceText:  "R$ 81,00",
		Currency:   "BRL",
		ObservedAt: observedAt,
		SourceURL:  "https://example.com/card",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if !obs.PriceConverted.Equal(decimal.RequireFromString("81")) {
		t.Errorf("PriceConverted = %s, want 81 (no fee on base currency)", obs.PriceConverted)
	}
	if !obs.FxRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("FxRate = %s, want 1", obs.FxRate)
	}
}

func TestNormalizer_Normalize_InvalidPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	fxRepo := repomock.NewMockFxRateRepository(ctrl)

	n := ingest.NewNormalizer(testConfig(), nil, variants, fxrate.NewService(fxRepo, fixedProvider{}, nil))

	for _, text := range []string{"N/A", "0.00", "-3.50"} {
		_, err := n.Normalize(context.Background(), sources.RawObservation{
			VariantID: 1,
			PriceText: text,
			Currency:  "BRL",
		})
		if !errors.Is(err, ingest.ErrInvalidPrice) {
			t.Errorf("Normalize(%q) error = %v, want ErrInvalidPrice", text, err)
		}
	}
}

func TestNormalizer_Normalize_UnresolvedWithoutCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	variants.EXPECT().
		GetByName(gomock.Any(), "Mystery Card").
		Return(nil, nil)

	fxRepo := repomock.NewMockFxRateRepository(ctrl)
	n := ingest.NewNormalizer(testConfig(), identity.NewResolver(variants, nil), variants, fxrate.NewService(fxRepo, fixedProvider{}, nil))

	_, err := n.Normalize(context.Background(), sources.RawObservation{
		Reference: identity.Reference{Name: "Mystery Card"},
		Source:    models.SourceRetail,
		PriceText: "R$ 10,00",
		Currency:  "BRL",
	})
	if !errors.Is(err, ingest.ErrUnresolvedReference) {
		t.Errorf("Normalize() error = %v, want ErrUnresolvedReference", err)
	}
}

func TestNormalizer_Normalize_CreateOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	variants.EXPECT().
		GetByName(gomock.Any(), "Fresh Card").
		Return(nil, nil)
	variants.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v *models.CardVariant) error {
			if v.Name != "Fresh Card" || !v.Tracked {
				t.Errorf("Create() variant = %+v, want tracked Fresh Card", v)
			}
			v.ID = 99
			return nil
		})

	n := ingest.NewNormalizer(testConfig(), identity.NewResolver(variants, nil), variants, fxServiceAt(ctrl, "5.00"))

	obs, err := n.Normalize(context.Background(), sources.RawObservation{
		Reference:  identity.Reference{Name: "Fresh Card"},
		Source:     models.SourceBuylist,
		PriceType:  models.PriceTypeSell,
		PriceText:  "$1.00",
		Currency:   "USD",
		ObservedAt: observedAt,
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if obs.CardVariantID != 99 {
		t.Errorf("CardVariantID = %d, want the created 99", obs.CardVariantID)
	}
}

func TestNormalizer_Normalize_FoilFeedPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	// One universal id, two rows; the foil observation lands on the foil row.
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-1", true).
		Return(&models.CardVariant{ID: 8, IsFoil: true}, nil)
	variants.EXPECT().
		GetByID(gomock.Any(), int64(8)).
		Return(&models.CardVariant{ID: 8, IsFoil: true}, nil)

	fxRepo := repomock.NewMockFxRateRepository(ctrl)
	n := ingest.NewNormalizer(testConfig(), identity.NewResolver(variants, nil), variants, fxrate.NewService(fxRepo, fixedProvider{}, nil))

	obs, err := n.Normalize(context.Background(), sources.RawObservation{
		Reference: identity.Reference{UniversalID: "uuid-1", IsFoil: true},
		Source:    models.SourceWholesale,
		PriceType: models.PriceTypeSell,
		PriceText: "4.75",
		Currency:  "BRL",
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if obs.CardVariantID != 8 {
		t.Errorf("CardVariantID = %d, want the foil row 8", obs.CardVariantID)
	}
}

func TestNormalizer_Normalize_FinishMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	// A stored row whose finish flag drifted from its identity key is rejected
	// rather than priced under the wrong finish.
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-1", true).
		Return(&models.CardVariant{ID: 5, IsFoil: false}, nil)
	variants.EXPECT().
		GetByID(gomock.Any(), int64(5)).
		Return(&models.CardVariant{ID: 5, IsFoil: false}, nil)

	fxRepo := repomock.NewMockFxRateRepository(ctrl)
	n := ingest.NewNormalizer(testConfig(), identity.NewResolver(variants, nil), variants, fxrate.NewService(fxRepo, fixedProvider{}, nil))

	_, err := n.Normalize(context.Background(), sources.RawObservation{
		Reference: identity.Reference{UniversalID: "uuid-1", IsFoil: true},
		Source:    models.SourceWholesale,
		PriceText: "2.00",
		Currency:  "BRL",
	})
	if !errors.Is(err, ingest.ErrFinishMismatch) {
		t.Errorf("Normalize() error = %v, want ErrFinishMismatch", err)
	}
}
