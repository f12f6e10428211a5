package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// FxRate is a cached daily conversion rate. Rows are write-once: a pair/date
// combination is never refetched or overwritten, which keeps re-runs of a
// day's normalization deterministic.
type FxRate struct {
	bun.BaseModel `bun:"table:fx_rates,alias:fx"`

	ID            int64           `bun:"id,pk,autoincrement"`
	BaseCode      string          `bun:"base_code,notnull"`
	QuoteCode     string          `bun:"quote_code,notnull"`
	Rate          decimal.Decimal `bun:"rate,notnull,type:numeric(14,6)"`
	EffectiveDate time.Time       `bun:"effective_date,notnull,type:date"`
	SourceLabel   string          `bun:"source_label,notnull"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
