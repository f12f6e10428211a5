package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"github.com/sahilm/fuzzy"
)

// ErrUnmatched is returned when no resolution path could map a reference to a
// known card variant. Callers record the original reference to the unmatched
// sink instead of guessing.
var ErrUnmatched = errors.New("identity: reference unmatched")

// ConflictError reports a reference whose exact tuple and universal id
// resolved to different variants. Resolution never auto-picks a side.
type ConflictError struct {
	Reference   Reference
	TupleID     int64
	UniversalID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("identity: reference %q resolves to variant %d by tuple but %d by universal id",
		e.Reference.Name, e.TupleID, e.UniversalID)
}

// Reference is everything a source knows about the card it priced. Fields are
// optional; the resolver uses whatever is present.
type Reference struct {
	UniversalID     string
	SetCode         string
	CollectorNumber string
	IsFoil          bool
	Name            string
	SetHint         string
}

func (r Reference) String() string {
	parts := make([]string, 0, 4)
	if r.Name != "" {
		parts = append(parts, r.Name)
	}
	if r.SetCode != "" {
		parts = append(parts, r.SetCode)
	}
	if r.CollectorNumber != "" {
		parts = append(parts, "#"+r.CollectorNumber)
	}
	if r.UniversalID != "" {
		parts = append(parts, "uuid:"+r.UniversalID)
	}
	return strings.Join(parts, " ")
}

// candidateItems implements fuzzy.Source over name-only candidates.
type candidateItems []*models.CardVariant

func (c candidateItems) Len() int            { return len(c) }
func (c candidateItems) String(i int) string { return strings.ToLower(c[i].Name) }

// Resolver maps source references onto card variant ids. Resolution is a pure
// lookup; creating variants on miss is a separate, explicitly invoked
// repository operation.
type Resolver struct {
	variants repositories.CardVariantRepository
	metadata MetadataLookup
}

func NewResolver(variants repositories.CardVariantRepository, metadata MetadataLookup) *Resolver {
	return &Resolver{variants: variants, metadata: metadata}
}

// Resolve tries, in order: the exact (set, collector number, foil) tuple, the
// universal id, and a single metadata lookup to canonicalize a name-only
// reference before retrying the tuple. When both tuple and universal id are
// present they must agree.
func (r *Resolver) Resolve(ctx context.Context, ref Reference) (int64, error) {
	var tupleID, universalID int64

	if ref.SetCode != "" && ref.CollectorNumber != "" {
		variant, err := r.variants.GetByTuple(ctx, ref.SetCode, ref.CollectorNumber, ref.IsFoil)
		if err != nil {
			return 0, fmt.Errorf("tuple lookup: %w", err)
		}
		if variant != nil {
			tupleID = variant.ID
		}
	}

	if ref.UniversalID != "" {
		// The universal id names a printing; both finishes share it, so the
		// foil flag completes the lookup.
		variant, err := r.variants.GetByUniversalID(ctx, ref.UniversalID, ref.IsFoil)
		if err != nil {
			return 0, fmt.Errorf("universal id lookup: %w", err)
		}
		if variant != nil {
			universalID = variant.ID
		}
	}

	switch {
	case tupleID != 0 && universalID != 0:
		if tupleID != universalID {
			return 0, &ConflictError{Reference: ref, TupleID: tupleID, UniversalID: universalID}
		}
		return tupleID, nil
	case tupleID != 0:
		return tupleID, nil
	case universalID != 0:
		return universalID, nil
	}

	if ref.Name == "" {
		return 0, ErrUnmatched
	}
	return r.resolveByName(ctx, ref)
}

// resolveByName canonicalizes the reference through one metadata lookup, then
// retries the tuple path with the canonical printing. A remaining ambiguity
// across same-name variants is ranked fuzzily against the reference text.
func (r *Resolver) resolveByName(ctx context.Context, ref Reference) (int64, error) {
	if r.metadata != nil {
		meta, err := r.metadata.Lookup(ctx, ref.Name, ref.SetHint)
		if err != nil && !errors.Is(err, ErrMetadataNotFound) {
			slog.Warn("Metadata lookup failed",
				slog.String("type", "identity"),
				slog.String("reference", ref.Name),
				slog.Any("error", err),
			)
		}
		if err == nil && meta != nil {
			if meta.SetCode != "" && meta.CollectorNumber != "" {
				variant, err := r.variants.GetByTuple(ctx, meta.SetCode, meta.CollectorNumber, ref.IsFoil)
				if err != nil {
					return 0, fmt.Errorf("canonical tuple lookup: %w", err)
				}
				if variant != nil {
					return variant.ID, nil
				}
			}
			if meta.Name != "" {
				ref.Name = meta.Name
			}
		}
	}

	candidates, err := r.variants.GetByName(ctx, ref.Name)
	if err != nil {
		return 0, fmt.Errorf("name lookup: %w", err)
	}

	// Narrow by finish before ranking; a foil reference never resolves to a
	// non-foil row.
	narrowed := candidates[:0:0]
	for _, c := range candidates {
		if c.IsFoil == ref.IsFoil {
			narrowed = append(narrowed, c)
		}
	}

	switch len(narrowed) {
	case 0:
		return 0, ErrUnmatched
	case 1:
		return narrowed[0].ID, nil
	}

	query := strings.ToLower(strings.TrimSpace(ref.Name + " " + ref.SetHint))
	matches := fuzzy.FindFrom(query, candidateItems(narrowed))
	if len(matches) == 0 {
		// Ranking gave no signal; take the oldest row for determinism.
		return narrowed[0].ID, nil
	}
	return narrowed[matches[0].Index].ID, nil
}
