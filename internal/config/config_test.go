package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"HTTP_ADDR", "GRPC_ADDR", "CATALOG_BACKEND", "CARS_FILE", "MYSQL_DSN",
	"SQLITE_PATH", "SEED_CATALOG", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CACHE_TTL", "RATE_RPS", "RATE_BURST", "TIMEZONE", "LOG_LEVEL",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":50051" {
		t.Errorf("expected :50051, got %s", cfg.GRPCAddr)
	}
	if cfg.CatalogBackend != BackendJSON {
		t.Errorf("expected json backend, got %s", cfg.CatalogBackend)
	}
	if !cfg.SeedCatalog {
		t.Error("expected SeedCatalog to default to true")
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m, got %v", cfg.CacheTTL)
	}
	if cfg.RateRPS != 50 || cfg.RateBurst != 100 {
		t.Errorf("expected 50/100, got %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info, got %v", cfg.LogLevel)
	}
	if cfg.Location() != nil {
		t.Error("expected nil location")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_BACKEND", "SQLite")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_RPS", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CatalogBackend != BackendSQLite {
		t.Errorf("expected sqlite, got %s", cfg.CatalogBackend)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("expected db 2, got %d", cfg.RedisDB)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.CacheTTL)
	}
	if cfg.RateRPS != 0 {
		t.Errorf("expected rate limiting disabled, got %v", cfg.RateRPS)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug, got %v", cfg.LogLevel)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", cfg.Location())
	}
}

func TestFromEnv_EmptyGRPCAddrDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRPC_ADDR", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("expected gRPC disabled, got %q", cfg.GRPCAddr)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"CATALOG_BACKEND": "postgres",
		"REDIS_DB":        "one",
		"CACHE_TTL":       "soon",
		"RATE_RPS":        "-1",
		"SEED_CATALOG":    "maybe",
		"LOG_LEVEL":       "loud",
		"TIMEZONE":        "Mars/Olympus",
	}

	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", k, v)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("expected :9999 from .env, got %s", cfg.HTTPAddr)
	}
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
