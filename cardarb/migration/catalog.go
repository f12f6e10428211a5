// catalog.go
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogCard is one card document in the legacy MongoDB catalog.
type MongoCatalogCard struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	SetName  string             `bson:"set_name"`
	SetCode  string             `bson:"set_code"`
	Number   string             `bson:"collector_number"`
	Foil     bool               `bson:"foil"`
	UUID     string             `bson:"mtgjson_uuid"`
	ImageURL string             `bson:"image_url"`
	Tracked  bool               `bson:"tracked"`
}

// jsonCatalogCard mirrors the card shape of the legacy JSON dumps.
type jsonCatalogCard struct {
	Name     string `json:"name"`
	SetName  string `json:"set_name"`
	SetCode  string `json:"set_code"`
	Number   string `json:"collector_number"`
	Foil     bool   `json:"foil"`
	UUID     string `json:"mtgjson_uuid"`
	ImageURL string `json:"image_url"`
	Tracked  bool   `json:"tracked"`
}

// ImportStats tracks catalog import progress and issues.
type ImportStats struct {
	Processed  int       `json:"processed"`
	Imported   int       `json:"imported"`
	Duplicates int       `json:"duplicates"`
	Invalid    int       `json:"invalid"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// CatalogImporter seeds card_variants from a legacy MongoDB catalog, either a
// live database or a JSON dump of the same collection. Inserts go through
// CONFLICT DO NOTHING, so re-running an import never duplicates variants.
type CatalogImporter struct {
	variants  repositories.CardVariantRepository
	batchSize int
	stats     ImportStats

	// Optional direct Mongo access
	mongoDB *mongo.Database
	// Mongo collection name (overrideable)
	collName string

	logger *slog.Logger
}

func NewCatalogImporter(variants repositories.CardVariantRepository) *CatalogImporter {
	return &CatalogImporter{
		variants:  variants,
		batchSize: 1000,
		collName:  "cards",
		logger:    slog.With(slog.String("type", "migration")),
	}
}

// SetBatchSize overrides the default batch size for inserts (useful for poolers/timeouts)
func (c *CatalogImporter) SetBatchSize(size int) {
	if size > 0 {
		c.batchSize = size
	}
}

// UseMongo enables direct-from-Mongo import mode
func (c *CatalogImporter) UseMongo(client *mongo.Client, dbName string) {
	if client != nil && dbName != "" {
		c.mongoDB = client.Database(dbName)
	}
}

// SetCollectionName overrides the Mongo collection name
func (c *CatalogImporter) SetCollectionName(name string) {
	if name != "" {
		c.collName = name
	}
}

func (c *CatalogImporter) Stats() ImportStats { return c.stats }

// ImportFromMongo streams the legacy cards collection and inserts variants in
// batches. Duplicate printings within the dump are kept once; rows already in
// the database are left untouched.
func (c *CatalogImporter) ImportFromMongo(ctx context.Context) error {
	if c.mongoDB == nil {
		return fmt.Errorf("mongoDB not configured; call UseMongo first")
	}

	c.stats = ImportStats{StartTime: time.Now()}
	c.logger.Info("Starting catalog import from MongoDB",
		slog.String("collection", c.collName),
		slog.Int("batch_size", c.batchSize),
	)

	cur, err := c.mongoDB.Collection(c.collName).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query %s collection: %w", c.collName, err)
	}
	defer cur.Close(ctx)

	seen := make(map[string]bool)
	var batch []*models.CardVariant
	for cur.Next(ctx) {
		var mc MongoCatalogCard
		if err := cur.Decode(&mc); err != nil {
			c.stats.Invalid++
			continue
		}
		c.stats.Processed++

		variant, key := c.convertCatalogCard(mc)
		if variant == nil {
			c.stats.Invalid++
			continue
		}
		if seen[key] {
			c.stats.Duplicates++
			continue
		}
		seen[key] = true

		batch = append(batch, variant)
		if len(batch) >= c.batchSize {
			if err := c.insertBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("catalog cursor failed: %w", err)
	}
	if len(batch) > 0 {
		if err := c.insertBatch(ctx, batch); err != nil {
			return err
		}
	}

	c.stats.EndTime = time.Now()
	c.logFinalStats()
	return nil
}

// ImportFromJSON imports a JSON dump of the legacy catalog (complete dataset).
func (c *CatalogImporter) ImportFromJSON(ctx context.Context, path string) error {
	c.stats = ImportStats{StartTime: time.Now()}
	c.logger.Info("Starting catalog import from JSON", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog dump: %w", err)
	}

	var cards []jsonCatalogCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return fmt.Errorf("failed to parse catalog dump: %w", err)
	}

	seen := make(map[string]bool)
	var batch []*models.CardVariant
	for _, jc := range cards {
		c.stats.Processed++

		variant, key := c.convertCatalogCard(MongoCatalogCard{
			Name:     jc.Name,
			SetName:  jc.SetName,
			SetCode:  jc.SetCode,
			Number:   jc.Number,
			Foil:     jc.Foil,
			UUID:     jc.UUID,
			ImageURL: jc.ImageURL,
			Tracked:  jc.Tracked,
		})
		if variant == nil {
			c.stats.Invalid++
			continue
		}
		if seen[key] {
			c.stats.Duplicates++
			continue
		}
		seen[key] = true

		batch = append(batch, variant)
		if len(batch) >= c.batchSize {
			if err := c.insertBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := c.insertBatch(ctx, batch); err != nil {
			return err
		}
	}

	c.stats.EndTime = time.Now()
	c.logFinalStats()
	return nil
}

// convertCatalogCard builds a variant from a legacy document and returns the
// dedup key for it. A nil variant means the document is unusable.
func (c *CatalogImporter) convertCatalogCard(mc MongoCatalogCard) (*models.CardVariant, string) {
	name := cleanseString(mc.Name)
	number := strings.TrimSpace(mc.Number)
	if name == "" || (number == "" && mc.UUID == "") {
		return nil, ""
	}

	// Both finishes of a printing share the universal id, so the finish is
	// part of the dedup key either way.
	key := fmt.Sprintf("%s|%t", mc.UUID, mc.Foil)
	if mc.UUID == "" {
		key = fmt.Sprintf("%s|%s|%t",
			strings.ToLower(mc.SetCode), models.NormalizeCollectorNumber(number), mc.Foil)
	}

	return &models.CardVariant{
		Name:            name,
		SetName:         cleanseString(mc.SetName),
		SetCode:         strings.ToLower(strings.TrimSpace(mc.SetCode)),
		CollectorNumber: number,
		IsFoil:          mc.Foil,
		UniversalID:     mc.UUID,
		ImageURL:        mc.ImageURL,
		Tracked:         mc.Tracked,
	}, key
}

func (c *CatalogImporter) insertBatch(ctx context.Context, batch []*models.CardVariant) error {
	start := time.Now()
	created, err := c.variants.BulkCreate(ctx, batch)
	if err != nil {
		return fmt.Errorf("failed to insert catalog batch: %w", err)
	}
	c.stats.Imported += created
	c.logger.Info("Catalog batch inserted",
		slog.Int("batch", len(batch)),
		slog.Int("created", created),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}

func (c *CatalogImporter) logFinalStats() {
	c.logger.Info("Catalog import completed",
		slog.Int("processed", c.stats.Processed),
		slog.Int("imported", c.stats.Imported),
		slog.Int("duplicates", c.stats.Duplicates),
		slog.Int("invalid", c.stats.Invalid),
		slog.Duration("took", c.stats.EndTime.Sub(c.stats.StartTime)),
	)
}

// cleanseString removes null bytes, control characters, and invalid UTF-8
// sequences that show up in older catalog dumps.
func cleanseString(s string) string {
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r == 0 || (r < 32 && r != 9 && r != 10 && r != 13) {
			continue
		}
		result.WriteRune(r)
	}
	return strings.TrimSpace(result.String())
}
