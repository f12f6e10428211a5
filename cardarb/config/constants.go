package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	BatchQueryTimeout   = 30 * time.Second
	NavigationTimeout   = 60 * time.Second
	SelectorTimeout     = 15 * time.Second
	FxFetchTimeout      = 10 * time.Second
	MetadataTimeout     = 10 * time.Second
	FeedDownloadTimeout = 10 * time.Minute

	// Batch processing
	DefaultBatchSize = 1000
	FeedWorkerCount  = 8
	MaxRetries       = 3

	// Cache settings
	FxCacheSize = 1024
)

// Scrape pacing. The inter-request pause is an external constraint imposed by
// the venues' anti-automation defenses; MinRequestGap is the floor below
// which configuration is clamped, never a tunable down to zero.
const (
	ScrapeWorkerCount = 2
	MinRequestGap     = 1 * time.Second
	DefaultPauseMin   = 2 * time.Second
	DefaultPauseMax   = 5 * time.Second
)

// Money handling
const (
	// Flat per-transaction fee applied on the display conversion, in base
	// currency units.
	DefaultTransactionFee = "0.30"
	BaseCurrency          = "BRL"
)
