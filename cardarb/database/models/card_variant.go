package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// CardVariant is one printing of one card in one finish. Variants are never
// hard-deleted; stale ones simply stop receiving observations.
type CardVariant struct {
	bun.BaseModel `bun:"table:card_variants,alias:cv"`

	ID                        int64     `bun:"id,pk,autoincrement"`
	Name                      string    `bun:"name,notnull"`
	SetName                   string    `bun:"set_name,notnull"`
	SetCode                   string    `bun:"set_code"`
	CollectorNumber           string    `bun:"collector_number,notnull"`
	CollectorNumberNormalized string    `bun:"collector_number_normalized,notnull"`
	IsFoil                    bool      `bun:"is_foil,notnull,default:false"`
	UniversalID               string    `bun:"mtgjson_uuid,nullzero"`
	ImageURL                  string    `bun:"image_url,nullzero"`
	BuylistURL                string    `bun:"buylist_url,nullzero"`
	RetailURL                 string    `bun:"retail_url,nullzero"`
	Tracked                   bool      `bun:"tracked,notnull,default:false"`
	CreatedAt                 time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt                 time.Time `bun:"updated_at,notnull"`
}

// NormalizeCollectorNumber strips leading zeros so "0204" and "204" compare
// equal. A number that is all zeros keeps its original form.
func NormalizeCollectorNumber(raw string) string {
	trimmed := strings.TrimSpace(raw)
	normalized := strings.TrimLeft(trimmed, "0")
	if normalized == "" {
		return trimmed
	}
	return normalized
}
