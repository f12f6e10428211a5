package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
)

// Target is one unit of scraping work: a venue URL plus whatever identity the
// caller already knows about the card behind it.
type Target struct {
	VariantID int64
	URL       string
	Name      string
	IsFoil    bool
}

// RawObservation is a price reading exactly as a source produced it, before
// normalization. PriceText keeps the venue's original formatting.
type RawObservation struct {
	// VariantID is set when the target was already bound to a variant (a
	// tracked card page); the normalizer then skips identity resolution.
	VariantID  int64
	Reference  identity.Reference
	Source     models.Source
	PriceType  models.PriceType
	PriceText  string
	Currency   string
	ObservedAt time.Time

	// Optional metadata a source happens to expose alongside the price.
	SetName   string
	ImageURL  string
	SourceURL string
}

// Adapter fetches raw observations for one target. Failures are reported with
// the typed errors below so the pipeline can pick the right reaction per
// class.
type Adapter interface {
	Source() models.Source
	Fetch(ctx context.Context, target Target) ([]RawObservation, error)
}

// NetworkError is a transient transport failure. The pipeline skips the
// target and leaves it for the next run.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("sources: network failure fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BlockedError means the venue's anti-automation layer intercepted the
// request. The pipeline aborts remaining work for the target's host.
type BlockedError struct {
	URL       string
	Indicator string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("sources: blocked at %s (%s)", e.URL, e.Indicator)
}

// NotFoundError means the page loaded but held no price for the requested
// printing.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sources: no price found at %s", e.URL)
}
