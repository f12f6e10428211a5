package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ellavondegurechaff/cardarb/cardarb/arbitrage"
	"github.com/ellavondegurechaff/cardarb/cardarb/config"
	"github.com/ellavondegurechaff/cardarb/cardarb/database"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	"github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	"github.com/ellavondegurechaff/cardarb/cardarb/fxrate"
	"github.com/ellavondegurechaff/cardarb/cardarb/identity"
	"github.com/ellavondegurechaff/cardarb/cardarb/ingest"
	"github.com/ellavondegurechaff/cardarb/cardarb/logger"
	"github.com/ellavondegurechaff/cardarb/cardarb/migration"
	"github.com/ellavondegurechaff/cardarb/cardarb/services"
	"github.com/ellavondegurechaff/cardarb/cardarb/sources"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting CardArb price engine",
		slog.String("version", version),
		slog.String("commit", commit))

	var (
		path          = flag.String("config", "config.toml", "path to config")
		scrapeBuylist = flag.Bool("scrape-buylist", false, "Scrape the buylist venue for tracked cards")
		scrapeRetail  = flag.Bool("scrape-retail", false, "Scrape the retail venue for tracked cards")
		runFeed       = flag.Bool("feed", false, "Ingest the daily wholesale price feed")
		crossref      = flag.Bool("crossref", false, "Attach universal ids from the set catalog")
		sets          = flag.String("sets", "", "comma-separated set codes for -crossref")
		importCatalog = flag.Bool("import-catalog", false, "Seed card variants from the legacy catalog")
		catalogDump   = flag.String("catalog-dump", "", "path to a JSON catalog dump for -import-catalog")
		mongoURI      = flag.String("mongo-uri", "", "MongoDB connection string for -import-catalog")
		mongoDB       = flag.String("mongo-db", "", "MongoDB database name for -import-catalog")
		opportunities = flag.Bool("opportunities", false, "Report ranked arbitrage opportunities")
		minROI        = flag.Float64("min-roi", 0, "minimum ROI for -opportunities (overrides config when > 0)")
		currency      = flag.String("currency", "", "display currency for -opportunities")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	variants := repositories.NewCardVariantRepository(db.BunDB())
	history := repositories.NewPriceHistoryRepository(db.BunDB())
	fxRepo := repositories.NewFxRateRepository(db.BunDB())
	unmatched := repositories.NewUnmatchedRepository(db.BunDB())

	fxService := fxrate.NewService(fxRepo, fxrate.NewHTTPProvider(cfg.Fx.ProviderURL), cfg.Fx.FallbackRates())
	resolver := identity.NewResolver(variants, identity.NewMetadataClient(""))

	normalizer := ingest.NewNormalizer(ingest.NormalizerConfig{
		BaseCurrency:   cfg.Arbitrage.BaseCurrency,
		TransactionFee: cfg.Arbitrage.Fee(),
		// Only the buylist scraper may mint variants; the feed and retail
		// scraper attach to what already exists.
		CreateOnMiss: map[models.Source]bool{models.SourceBuylist: true},
	}, resolver, variants, fxService)

	pacer := ingest.NewPacer(cfg.Scrape.PauseMin(), cfg.Scrape.PauseMax())
	pipeline := ingest.NewPipeline(normalizer, history, unmatched, pacer,
		ingest.WithScrapeWorkers(cfg.Scrape.Workers),
		ingest.WithFeedWorkers(cfg.Feed.Workers),
	)

	switch {
	case *scrapeBuylist:
		runScrape(ctx, pipeline, sources.NewBuylistAdapter(), buylistTargets(ctx, variants))
	case *scrapeRetail:
		runScrape(ctx, pipeline, sources.NewRetailAdapter(), retailTargets(ctx, variants))
	case *runFeed:
		var archive sources.SnapshotArchive
		if cfg.Feed.Archive {
			archive = services.NewFeedArchiveService(
				cfg.Spaces.Key, cfg.Spaces.Secret, cfg.Spaces.Region, cfg.Spaces.Bucket, cfg.Spaces.FeedRoot)
		}
		adapter := sources.NewWholesaleFeedAdapter(cfg.Feed.URL, cfg.Feed.Provider, archive)
		summary, err := pipeline.RunFeed(ctx, adapter)
		exitOnEmptyRun(summary, err)
	case *crossref:
		runCrossRef(ctx, variants, *sets)
	case *importCatalog:
		runImport(ctx, variants, *catalogDump, *mongoURI, *mongoDB)
	case *opportunities:
		threshold := decimal.NewFromFloat(cfg.Arbitrage.MinROI)
		if *minROI > 0 {
			threshold = decimal.NewFromFloat(*minROI)
		}
		display := cfg.Arbitrage.DisplayCurrency
		if *currency != "" {
			display = *currency
		}
		engine := arbitrage.NewEngine(variants, history, fxService, cfg.Arbitrage.BaseCurrency, cfg.Arbitrage.Fee())
		reportOpportunities(ctx, engine, threshold, display)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func buylistTargets(ctx context.Context, variants repositories.CardVariantRepository) []sources.Target {
	tracked, err := variants.ListTrackedBuylist(ctx)
	if err != nil {
		slog.Error("Failed to list buylist targets", slog.Any("error", err))
		os.Exit(-1)
	}
	targets := make([]sources.Target, 0, len(tracked))
	for _, v := range tracked {
		targets = append(targets, sources.Target{
			VariantID: v.ID,
			URL:       v.BuylistURL,
			Name:      v.Name,
			IsFoil:    v.IsFoil,
		})
	}
	return targets
}

func retailTargets(ctx context.Context, variants repositories.CardVariantRepository) []sources.Target {
	tracked, err := variants.ListTrackedRetail(ctx)
	if err != nil {
		slog.Error("Failed to list retail targets", slog.Any("error", err))
		os.Exit(-1)
	}
	targets := make([]sources.Target, 0, len(tracked))
	for _, v := range tracked {
		targets = append(targets, sources.Target{
			VariantID: v.ID,
			URL:       v.RetailURL,
			Name:      v.Name,
			IsFoil:    v.IsFoil,
		})
	}
	return targets
}

func runScrape(ctx context.Context, pipeline *ingest.Pipeline, adapter sources.Adapter, targets []sources.Target) {
	if len(targets) == 0 {
		slog.Warn("No tracked targets for source", slog.String("source", string(adapter.Source())))
		os.Exit(-1)
	}
	summary, err := pipeline.RunScrape(ctx, adapter, targets)
	exitOnEmptyRun(summary, err)
}

// exitOnEmptyRun implements the job contract: partial failure is success, a
// run that stored nothing is not.
func exitOnEmptyRun(summary ingest.RunSummary, err error) {
	if err != nil {
		slog.Error("Run failed", slog.Any("error", err))
		os.Exit(-1)
	}
	for _, ref := range summary.UnresolvedSamples {
		slog.Warn("Unresolved reference", slog.String("reference", ref))
	}
	if summary.Empty() {
		slog.Error("Run stored nothing",
			slog.Int("unresolved", summary.Unresolved),
			slog.Int("blocked", summary.Blocked),
			slog.Int("failed", summary.Failed),
		)
		os.Exit(-1)
	}
}

func runCrossRef(ctx context.Context, variants repositories.CardVariantRepository, setsArg string) {
	var setCodes []string
	for _, code := range strings.Split(setsArg, ",") {
		if code = strings.TrimSpace(code); code != "" {
			setCodes = append(setCodes, code)
		}
	}
	if len(setCodes) == 0 {
		slog.Error("No set codes given; use -sets neo,m25,...")
		os.Exit(2)
	}

	ref := identity.NewCrossReferencer(variants, identity.NewCatalogClient(""))
	stats, err := ref.Run(ctx, setCodes)
	if err != nil {
		slog.Error("Cross-reference failed", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Cross-reference finished",
		slog.Int("sets", stats.SetsProcessed),
		slog.Int("attached", stats.Attached),
		slog.Int("already_set", stats.AlreadySet),
		slog.Int("no_match", stats.NoMatch),
		slog.Int("conflicts", stats.Conflicts),
	)
}

func runImport(ctx context.Context, variants repositories.CardVariantRepository, dumpPath, mongoURI, mongoDB string) {
	importer := migration.NewCatalogImporter(variants)

	var err error
	switch {
	case dumpPath != "":
		err = importer.ImportFromJSON(ctx, dumpPath)
	case mongoURI != "":
		var client *mongo.Client
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			slog.Error("MongoDB connection failed", slog.Any("error", err))
			os.Exit(-1)
		}
		defer client.Disconnect(ctx)
		importer.UseMongo(client, mongoDB)
		err = importer.ImportFromMongo(ctx)
	default:
		slog.Error("Catalog import needs -catalog-dump or -mongo-uri")
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Catalog import failed", slog.Any("error", err))
		os.Exit(-1)
	}
}

func reportOpportunities(ctx context.Context, engine *arbitrage.Engine, minROI decimal.Decimal, currency string) {
	found, err := engine.FindOpportunities(ctx, nil, minROI, currency)
	if err != nil {
		slog.Error("Opportunity scan failed", slog.Any("error", err))
		os.Exit(-1)
	}
	if len(found) == 0 {
		slog.Info("No opportunities above threshold", slog.String("min_roi", minROI.String()))
		return
	}

	fmt.Printf("%-40s %-6s %-5s %10s %10s %10s %8s\n",
		"CARD", "SET", "FOIL", "BUY", "SELL", "PROFIT", "ROI")
	for _, opp := range found {
		foil := ""
		if opp.IsFoil {
			foil = "foil"
		}
		fmt.Printf("%-40s %-6s %-5s %10s %10s %10s %7s%%\n",
			opp.Name,
			opp.SetCode,
			foil,
			opp.BuyPrice.StringFixed(2),
			opp.SellPrice.StringFixed(2),
			opp.Profit.StringFixed(2),
			opp.ROI.Mul(decimal.NewFromInt(100)).StringFixed(1),
		)
	}
}
