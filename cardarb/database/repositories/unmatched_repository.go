package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/uptrace/bun"
)

// UnmatchedRepository is the triage sink for references that identity
// resolution rejected.
type UnmatchedRepository interface {
	Record(ctx context.Context, source models.Source, reference, reason string) error
	ListRecent(ctx context.Context, limit int) ([]*models.UnmatchedReference, error)
}

type unmatchedRepository struct {
	db *bun.DB
}

func NewUnmatchedRepository(db *bun.DB) UnmatchedRepository {
	return &unmatchedRepository{db: db}
}

func (r *unmatchedRepository) Record(ctx context.Context, source models.Source, reference, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	entry := &models.UnmatchedReference{
		Source:    source,
		Reference: reference,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record unmatched reference: %w", err)
	}
	return nil
}

func (r *unmatchedRepository) ListRecent(ctx context.Context, limit int) ([]*models.UnmatchedReference, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	var entries []*models.UnmatchedReference
	err := r.db.NewSelect().
		Model(&entries).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched references: %w", err)
	}
	return entries, nil
}
