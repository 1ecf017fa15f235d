package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.MarketData.HistoryYears != 5 {
		t.Fatalf("history years = %d", c.MarketData.HistoryYears)
	}
	if c.Forecast.HorizonDays != 90 {
		t.Fatalf("horizon = %d", c.Forecast.HorizonDays)
	}
	if c.Symbols.MaxLength != 10 {
		t.Fatalf("symbol max length = %d", c.Symbols.MaxLength)
	}
	if c.Strategy.Candidates != 1 {
		t.Fatalf("candidates = %d", c.Strategy.Candidates)
	}
	if c.Notify.WarningTTL != 3*time.Second || c.Notify.ErrorTTL != 5*time.Second {
		t.Fatalf("notify ttls = %v / %v", c.Notify.WarningTTL, c.Notify.ErrorTTL)
	}
	if c.Cache.Redis.Enabled {
		t.Fatal("redis enabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
environment: production
server:
  port: 9090
marketdata:
  history_years: 2
forecast:
  horizon_days: 30
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Environment != "production" || c.Server.Port != 9090 {
		t.Fatalf("overrides not applied: %s %d", c.Environment, c.Server.Port)
	}
	if c.MarketData.HistoryYears != 2 || c.Forecast.HorizonDays != 30 {
		t.Fatalf("domain overrides not applied")
	}
	// Unset fields keep their defaults.
	if c.MarketData.BaseURL == "" || c.Notify.MaxPending != 64 {
		t.Fatal("defaults lost on load")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("environment: development\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Port != 7070 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if !c.Cache.Redis.Enabled || c.Cache.Redis.Host != "cache.internal" || c.Cache.Redis.Port != 6380 {
		t.Fatalf("redis override not applied: %+v", c.Cache.Redis)
	}
	if c.Logging.Level != "debug" {
		t.Fatalf("log level = %s", c.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
