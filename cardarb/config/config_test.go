package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[db]
host = "db.internal"
database = "cardarb"
user = "cardarb"

[fx]
provider_url = "https://fx.example/v6"
[fx.fallbacks]
"USD/BRL" = 6.0

[arbitrage]
transaction_fee = "0.30"
min_roi = 0.1
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want db.internal", cfg.DB.Host)
	}
	if cfg.DB.Port != 5432 {
		t.Errorf("DB.Port = %d, want default 5432", cfg.DB.Port)
	}
	if cfg.Scrape.PauseMin() != DefaultPauseMin {
		t.Errorf("Scrape.PauseMin() = %v, want default %v", cfg.Scrape.PauseMin(), DefaultPauseMin)
	}
	if !cfg.Arbitrage.Fee().Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("Arbitrage.Fee() = %s, want 0.30", cfg.Arbitrage.Fee())
	}

	rates := cfg.Fx.FallbackRates()
	if got, ok := rates["USD/BRL"]; !ok || !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("FallbackRates()[USD/BRL] = %v, want 6", got)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
[db]
password = "from-toml"
`)
	t.Setenv("CARDARB_DB_PASSWORD", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DB.Password != "from-env" {
		t.Errorf("DB.Password = %q, want the environment to win", cfg.DB.Password)
	}
}

func TestArbitrageConfig_FeeFallback(t *testing.T) {
	cfg := ArbitrageConfig{TransactionFee: "not-a-number"}
	if !cfg.Fee().Equal(decimal.RequireFromString(DefaultTransactionFee)) {
		t.Errorf("Fee() = %s, want default %s for malformed input", cfg.Fee(), DefaultTransactionFee)
	}
}
