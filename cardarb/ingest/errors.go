package ingest

import "errors"

// Per-observation errors. Each one fails only the observation that raised it;
// siblings in the same batch continue.
var (
	// ErrInvalidPrice marks a price text that is unparseable, zero or
	// negative.
	ErrInvalidPrice = errors.New("ingest: invalid price")

	// ErrUnresolvedReference marks an observation whose card reference could
	// not be resolved to a variant. The original reference is recorded to the
	// unmatched sink.
	ErrUnresolvedReference = errors.New("ingest: unresolved card reference")

	// ErrFinishMismatch marks an observation whose foil flag disagrees with
	// the variant it resolved to.
	ErrFinishMismatch = errors.New("ingest: finish mismatch")
)
