package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UnmatchedReference records a reference that identity resolution could not
// map to a card variant, kept for manual triage. The original reference
// string is stored verbatim.
type UnmatchedReference struct {
	bun.BaseModel `bun:"table:unmatched_references,alias:ur"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Source    Source    `bun:"source,notnull"`
	Reference string    `bun:"reference,notnull"`
	Reason    string    `bun:"reason,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
