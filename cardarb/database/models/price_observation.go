package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Source identifies where a price observation came from.
type Source string

const (
	SourceBuylist   Source = "buylist"   // venue that buys cards from the user
	SourceRetail    Source = "retail"    // venue the user buys cards from
	SourceWholesale Source = "wholesale" // bulk daily price feed
)

// PriceType distinguishes what side of the market a price sits on.
type PriceType string

const (
	PriceTypeBuy  PriceType = "buy"
	PriceTypeSell PriceType = "sell"
)

// PriceObservation is one price reading for a card variant. At most one
// logical observation per (card variant, source, calendar day) is retained;
// the day boundary is computed in UTC regardless of the source's local time.
type PriceObservation struct {
	bun.BaseModel `bun:"table:price_observations,alias:po"`

	ID             int64           `bun:"id,pk,autoincrement"`
	CardVariantID  int64           `bun:"card_variant_id,notnull"`
	Source         Source          `bun:"source,notnull"`
	PriceType      PriceType       `bun:"price_type,notnull"`
	PriceRaw       decimal.Decimal `bun:"price_raw,notnull,type:numeric(14,4)"`
	Currency       string          `bun:"currency,notnull"`
	FxRate         decimal.Decimal `bun:"fx_rate,notnull,type:numeric(14,6)"`
	PriceConverted decimal.Decimal `bun:"price_converted,notnull,type:numeric(14,4)"`
	ObservedAt     time.Time       `bun:"observed_at,notnull"`
	ObservedDay    time.Time       `bun:"observed_day,notnull,type:date"`
	IngestedAt     time.Time       `bun:"ingested_at,notnull"`
}

// ObservationDay truncates a timestamp to the calendar day in the fixed UTC
// reference zone used for the per-day dedup invariant.
func ObservationDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
