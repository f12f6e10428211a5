package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrUniversalIDConflict is returned when an attach would overwrite a
// different universal id already present on a variant. The two identity paths
// must never silently disagree, so this is surfaced to the caller.
var ErrUniversalIDConflict = errors.New("universal id conflict")

type CardVariantRepository interface {
	Create(ctx context.Context, variant *models.CardVariant) error
	GetByID(ctx context.Context, id int64) (*models.CardVariant, error)
	GetByTuple(ctx context.Context, setCode, collectorNumber string, isFoil bool) (*models.CardVariant, error)
	GetByUniversalID(ctx context.Context, universalID string, isFoil bool) (*models.CardVariant, error)
	GetByName(ctx context.Context, name string) ([]*models.CardVariant, error)
	GetBySetCode(ctx context.Context, setCode string) ([]*models.CardVariant, error)
	AttachUniversalID(ctx context.Context, variantID int64, universalID string) error
	RefreshMetadata(ctx context.Context, variantID int64, setCode, imageURL, buylistURL, retailURL string) error
	ListTrackedBuylist(ctx context.Context) ([]*models.CardVariant, error)
	ListTrackedRetail(ctx context.Context) ([]*models.CardVariant, error)
	BulkCreate(ctx context.Context, variants []*models.CardVariant) (int, error)
}

type cardVariantRepository struct {
	db *bun.DB
}

func NewCardVariantRepository(db *bun.DB) CardVariantRepository {
	return &cardVariantRepository{db: db}
}

func (r *cardVariantRepository) Create(ctx context.Context, variant *models.CardVariant) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	if variant.CollectorNumberNormalized == "" {
		variant.CollectorNumberNormalized = models.NormalizeCollectorNumber(variant.CollectorNumber)
	}
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(variant).
		Returning("id").
		Exec(ctx)

	return err
}

func (r *cardVariantRepository) GetByID(ctx context.Context, id int64) (*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	variant := new(models.CardVariant)
	err := r.db.NewSelect().
		Model(variant).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return variant, err
}

// GetByTuple resolves the exact identity path: case-insensitive set code plus
// the collector number with leading zeros stripped.
func (r *cardVariantRepository) GetByTuple(ctx context.Context, setCode, collectorNumber string, isFoil bool) (*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	variant := new(models.CardVariant)
	err := r.db.NewSelect().
		Model(variant).
		Where("LOWER(set_code) = LOWER(?)", setCode).
		Where("collector_number_normalized = ?", models.NormalizeCollectorNumber(collectorNumber)).
		Where("is_foil = ?", isFoil).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return variant, err
}

// GetByUniversalID resolves a universal id to one variant. A universal id
// names a printing, not a finish; the foil and non-foil rows of a printing
// share it, so the finish flag completes the key.
func (r *cardVariantRepository) GetByUniversalID(ctx context.Context, universalID string, isFoil bool) (*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	variant := new(models.CardVariant)
	err := r.db.NewSelect().
		Model(variant).
		Where("mtgjson_uuid = ?", universalID).
		Where("is_foil = ?", isFoil).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return variant, err
}

func (r *cardVariantRepository) GetByName(ctx context.Context, name string) ([]*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var variants []*models.CardVariant
	err := r.db.NewSelect().
		Model(&variants).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		Scan(ctx)

	return variants, err
}

func (r *cardVariantRepository) GetBySetCode(ctx context.Context, setCode string) ([]*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var variants []*models.CardVariant
	err := r.db.NewSelect().
		Model(&variants).
		Where("LOWER(set_code) = LOWER(?)", setCode).
		Order("id ASC").
		Scan(ctx)

	return variants, err
}

// AttachUniversalID sets the universal id on a variant that does not have one
// yet. Attaching a different id over an existing one is a conflict, never an
// overwrite.
func (r *cardVariantRepository) AttachUniversalID(ctx context.Context, variantID int64, universalID string) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	existing, err := r.GetByID(ctx, variantID)
	if err != nil {
		return fmt.Errorf("failed to load variant %d: %w", variantID, err)
	}
	if existing == nil {
		return fmt.Errorf("variant %d not found", variantID)
	}
	if existing.UniversalID != "" {
		if existing.UniversalID == universalID {
			return nil
		}
		return fmt.Errorf("%w: variant %d has %s, attach of %s refused",
			ErrUniversalIDConflict, variantID, existing.UniversalID, universalID)
	}

	_, err = r.db.NewUpdate().
		Model((*models.CardVariant)(nil)).
		Set("mtgjson_uuid = ?", universalID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", variantID).
		Exec(ctx)

	// The (universal id, finish) index rejecting the attach means another
	// variant already holds this id for the same finish. That is a conflict
	// for the caller to count, not a systemic failure.
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s already attached to another %s-finish variant",
			ErrUniversalIDConflict, universalID, finishLabel(existing.IsFoil))
	}
	return err
}

func finishLabel(isFoil bool) string {
	if isFoil {
		return "foil"
	}
	return "normal"
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C') == "23505"
	}
	return false
}

// RefreshMetadata fills in missing metadata from a fresher source. Empty
// arguments leave the stored value untouched.
func (r *cardVariantRepository) RefreshMetadata(ctx context.Context, variantID int64, setCode, imageURL, buylistURL, retailURL string) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	q := r.db.NewUpdate().
		Model((*models.CardVariant)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", variantID)

	if setCode != "" {
		q = q.Set("set_code = COALESCE(NULLIF(set_code, ''), ?)", setCode)
	}
	if imageURL != "" {
		q = q.Set("image_url = ?", imageURL)
	}
	if buylistURL != "" {
		q = q.Set("buylist_url = ?", buylistURL)
	}
	if retailURL != "" {
		q = q.Set("retail_url = ?", retailURL)
	}

	_, err := q.Exec(ctx)
	return err
}

func (r *cardVariantRepository) ListTrackedBuylist(ctx context.Context) ([]*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var variants []*models.CardVariant
	err := r.db.NewSelect().
		Model(&variants).
		Where("tracked = true").
		Where("buylist_url IS NOT NULL AND buylist_url != ''").
		Order("id ASC").
		Scan(ctx)

	return variants, err
}

func (r *cardVariantRepository) ListTrackedRetail(ctx context.Context) ([]*models.CardVariant, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var variants []*models.CardVariant
	err := r.db.NewSelect().
		Model(&variants).
		Where("tracked = true").
		Where("retail_url IS NOT NULL AND retail_url != ''").
		Order("id ASC").
		Scan(ctx)

	return variants, err
}

func (r *cardVariantRepository) BulkCreate(ctx context.Context, variants []*models.CardVariant) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	if len(variants) == 0 {
		return 0, nil
	}

	now := time.Now()
	totalCreated := 0

	for i := 0; i < len(variants); i += config.DefaultBatchSize {
		end := i + config.DefaultBatchSize
		if end > len(variants) {
			end = len(variants)
		}

		batch := variants[i:end]
		for _, v := range batch {
			if v.CollectorNumberNormalized == "" {
				v.CollectorNumberNormalized = models.NormalizeCollectorNumber(v.CollectorNumber)
			}
			v.CreatedAt = now
			v.UpdatedAt = now
		}

		res, err := r.db.NewInsert().
			Model(&batch).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return totalCreated, fmt.Errorf("failed to insert variant batch: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			totalCreated += int(affected)
		}
	}

	return totalCreated, nil
}
