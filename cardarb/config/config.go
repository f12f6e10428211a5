package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// LoadConfig reads the TOML file at path, loads a .env file when one is
// present, and applies CARDARB_* environment overrides for secrets so they
// never have to live in the TOML file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	DB        DBConfig        `toml:"db"`
	Fx        FxConfig        `toml:"fx"`
	Scrape    ScrapeConfig    `toml:"scrape"`
	Feed      FeedConfig      `toml:"feed"`
	Arbitrage ArbitrageConfig `toml:"arbitrage"`
	Spaces    SpacesConfig    `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type FxConfig struct {
	ProviderURL string `toml:"provider_url"`
	// Provisional rates used when the provider is unreachable, keyed
	// "BASE/QUOTE". Never persisted.
	Fallbacks map[string]float64 `toml:"fallbacks"`
}

// FallbackRates converts the configured fallback map to decimals.
func (c FxConfig) FallbackRates() map[string]decimal.Decimal {
	if len(c.Fallbacks) == 0 {
		return nil
	}
	rates := make(map[string]decimal.Decimal, len(c.Fallbacks))
	for pair, rate := range c.Fallbacks {
		rates[pair] = decimal.NewFromFloat(rate)
	}
	return rates
}

type ScrapeConfig struct {
	Workers    int `toml:"workers"`
	PauseMinMs int `toml:"pause_min_ms"`
	PauseMaxMs int `toml:"pause_max_ms"`
}

func (c ScrapeConfig) PauseMin() time.Duration { return time.Duration(c.PauseMinMs) * time.Millisecond }
func (c ScrapeConfig) PauseMax() time.Duration { return time.Duration(c.PauseMaxMs) * time.Millisecond }

type FeedConfig struct {
	URL      string `toml:"url"`
	Provider string `toml:"provider"`
	Workers  int    `toml:"workers"`
	Archive  bool   `toml:"archive"`
}

type ArbitrageConfig struct {
	BaseCurrency    string  `toml:"base_currency"`
	DisplayCurrency string  `toml:"display_currency"`
	TransactionFee  string  `toml:"transaction_fee"`
	MinROI          float64 `toml:"min_roi"`
}

// Fee parses the configured flat fee, falling back to the default when the
// value is absent or malformed.
func (c ArbitrageConfig) Fee() decimal.Decimal {
	if fee, err := decimal.NewFromString(c.TransactionFee); err == nil {
		return fee
	}
	return decimal.RequireFromString(DefaultTransactionFee)
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	FeedRoot string `toml:"feed_root"`
}

func defaults() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		DB:  DBConfig{Host: "localhost", Port: 5432, PoolSize: 10},
		Scrape: ScrapeConfig{
			Workers:    ScrapeWorkerCount,
			PauseMinMs: int(DefaultPauseMin / time.Millisecond),
			PauseMaxMs: int(DefaultPauseMax / time.Millisecond),
		},
		Feed: FeedConfig{Workers: FeedWorkerCount},
		Arbitrage: ArbitrageConfig{
			BaseCurrency:    BaseCurrency,
			DisplayCurrency: BaseCurrency,
			TransactionFee:  DefaultTransactionFee,
		},
	}
}

// applyEnvOverrides overwrites secret-bearing fields from CARDARB_* variables
// when set, so deploys can keep credentials out of the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.DB.Host, "CARDARB_DB_HOST")
	setInt(&cfg.DB.Port, "CARDARB_DB_PORT")
	setStr(&cfg.DB.User, "CARDARB_DB_USER")
	setStr(&cfg.DB.Password, "CARDARB_DB_PASSWORD")
	setStr(&cfg.DB.Database, "CARDARB_DB_DATABASE")

	setStr(&cfg.Fx.ProviderURL, "CARDARB_FX_PROVIDER_URL")
	setStr(&cfg.Feed.URL, "CARDARB_FEED_URL")

	setStr(&cfg.Spaces.Key, "CARDARB_SPACES_KEY")
	setStr(&cfg.Spaces.Secret, "CARDARB_SPACES_SECRET")
	setStr(&cfg.Spaces.Region, "CARDARB_SPACES_REGION")
	setStr(&cfg.Spaces.Bucket, "CARDARB_SPACES_BUCKET")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
