package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	repomock "github.com/ellavondegurechaff/cardarb/cardarb/database/repositories/mock"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity/mock"
	"go.uber.org/mock/gomock"
)

func TestResolver_Resolve_ExactTuple(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	variants.EXPECT().
		GetByTuple(gomock.Any(), "neo", "361", false).
		Return(&models.CardVariant{ID: 42}, nil)

	r := identity.NewResolver(variants, nil)
	got, err := r.Resolve(context.Background(), identity.Reference{
		SetCode:         "neo",
		CollectorNumber: "361",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Resolve() = %d, want 42", got)
	}
}

func TestResolver_Resolve_UniversalID(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-1", false).
		Return(&models.CardVariant{ID: 7}, nil)

	r := identity.NewResolver(variants, nil)
	got, err := r.Resolve(context.Background(), identity.Reference{UniversalID: "uuid-1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 7 {
		t.Errorf("Resolve() = %d, want 7", got)
	}
}

func TestResolver_Resolve_UniversalIDPerFinish(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	// The foil and non-foil rows of a printing share the universal id; the
	// reference's finish picks the row.
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-1", true).
		Return(&models.CardVariant{ID: 8, IsFoil: true}, nil)

	r := identity.NewResolver(variants, nil)
	got, err := r.Resolve(context.Background(), identity.Reference{
		UniversalID: "uuid-1",
		IsFoil:      true,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 8 {
		t.Errorf("Resolve() = %d, want the foil row 8", got)
	}
}

func TestResolver_Resolve_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	variants.EXPECT().
		GetByTuple(gomock.Any(), "neo", "361", false).
		Return(&models.CardVariant{ID: 1}, nil)
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-2", false).
		Return(&models.CardVariant{ID: 2}, nil)

	r := identity.NewResolver(variants, nil)
	_, err := r.Resolve(context.Background(), identity.Reference{
		UniversalID:     "uuid-2",
		SetCode:         "neo",
		CollectorNumber: "361",
	})

	var conflict *identity.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Resolve() error = %v, want *ConflictError", err)
	}
	if conflict.TupleID != 1 || conflict.UniversalID != 2 {
		t.Errorf("ConflictError = %+v, want tuple 1 / universal 2", conflict)
	}
}

func TestResolver_Resolve_BothAgree(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	variants.EXPECT().
		GetByTuple(gomock.Any(), "neo", "361", true).
		Return(&models.CardVariant{ID: 9}, nil)
	variants.EXPECT().
		GetByUniversalID(gomock.Any(), "uuid-9", true).
		Return(&models.CardVariant{ID: 9}, nil)

	r := identity.NewResolver(variants, nil)
	got, err := r.Resolve(context.Background(), identity.Reference{
		UniversalID:     "uuid-9",
		SetCode:         "neo",
		CollectorNumber: "361",
		IsFoil:          true,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 9 {
		t.Errorf("Resolve() = %d, want 9", got)
	}
}

func TestResolver_Resolve_MetadataFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	metadata := mock.NewMockMetadataLookup(ctrl)

	// Tuple miss, then metadata canonicalizes to a printing that exists.
	variants.EXPECT().
		GetByTuple(gomock.Any(), "NEO", "0361", false).
		Return(nil, nil)
	metadata.EXPECT().
		Lookup(gomock.Any(), "ambitious assault", "").
		Return(&identity.CardMetadata{
			Name:            "Ambitious Assault",
			SetCode:         "neo",
			CollectorNumber: "361",
		}, nil)
	variants.EXPECT().
		GetByTuple(gomock.Any(), "neo", "361", false).
		Return(&models.CardVariant{ID: 42}, nil)

	r := identity.NewResolver(variants, metadata)
	got, err := r.Resolve(context.Background(), identity.Reference{
		SetCode:         "NEO",
		CollectorNumber: "0361",
		Name:            "ambitious assault",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Resolve() = %d, want 42", got)
	}
}

func TestResolver_Resolve_NameOnlyFuzzy(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	metadata := mock.NewMockMetadataLookup(ctrl)

	metadata.EXPECT().
		Lookup(gomock.Any(), "Lightning Bolt", "Masters 25").
		Return(nil, identity.ErrMetadataNotFound)
	variants.EXPECT().
		GetByName(gomock.Any(), "Lightning Bolt").
		Return([]*models.CardVariant{
			{ID: 1, Name: "Lightning Bolt", SetName: "Fourth Edition"},
			{ID: 2, Name: "Lightning Bolt Masters 25", SetName: "Masters 25"},
		}, nil)

	r := identity.NewResolver(variants, metadata)
	got, err := r.Resolve(context.Background(), identity.Reference{
		Name:    "Lightning Bolt",
		SetHint: "Masters 25",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 2 {
		t.Errorf("Resolve() = %d, want the set-hinted printing 2", got)
	}
}

func TestResolver_Resolve_FinishNarrowing(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	metadata := mock.NewMockMetadataLookup(ctrl)

	metadata.EXPECT().
		Lookup(gomock.Any(), "Shivan Dragon", "").
		Return(nil, identity.ErrMetadataNotFound)
	variants.EXPECT().
		GetByName(gomock.Any(), "Shivan Dragon").
		Return([]*models.CardVariant{
			{ID: 1, Name: "Shivan Dragon", IsFoil: false},
			{ID: 2, Name: "Shivan Dragon", IsFoil: true},
		}, nil)

	r := identity.NewResolver(variants, metadata)
	got, err := r.Resolve(context.Background(), identity.Reference{
		Name:   "Shivan Dragon",
		IsFoil: true,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != 2 {
		t.Errorf("Resolve() = %d, want the foil printing 2", got)
	}
}

func TestResolver_Resolve_Unmatched(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)
	metadata := mock.NewMockMetadataLookup(ctrl)

	metadata.EXPECT().
		Lookup(gomock.Any(), "Not A Real Card", "").
		Return(nil, identity.ErrMetadataNotFound)
	variants.EXPECT().
		GetByName(gomock.Any(), "Not A Real Card").
		Return(nil, nil)

	r := identity.NewResolver(variants, metadata)
	_, err := r.Resolve(context.Background(), identity.Reference{Name: "Not A Real Card"})
	if !errors.Is(err, identity.ErrUnmatched) {
		t.Errorf("Resolve() error = %v, want ErrUnmatched", err)
	}
}

func TestResolver_Resolve_EmptyReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	variants := repomock.NewMockCardVariantRepository(ctrl)

	r := identity.NewResolver(variants, nil)
	_, err := r.Resolve(context.Background(), identity.Reference{})
	if !errors.Is(err, identity.ErrUnmatched) {
		t.Errorf("Resolve() error = %v, want ErrUnmatched", err)
	}
}
