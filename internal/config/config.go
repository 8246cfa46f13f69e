// Package config reads process settings from the environment. A .env file in
// the working directory, when present, is loaded first and never overrides
// variables that are already set.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	CatalogBackend string
	CarsFile       string
	MySQLDSN       string
	SQLitePath     string
	SeedCatalog    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateRPS   float64
	RateBurst int

	Timezone string
	LogLevel slog.Level
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var err error
	cfg := Config{
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		GRPCAddr:       getenvDefault("GRPC_ADDR", ":50051"),
		CatalogBackend: strings.ToLower(getenvDefault("CATALOG_BACKEND", BackendJSON)),
		CarsFile:       getenvDefault("CARS_FILE", "database/cars.json"),
		MySQLDSN:       getenvDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/carrental?parseTime=true"),
		SQLitePath:     getenvDefault("SQLITE_PATH", "carrental.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		Timezone:       os.Getenv("TIMEZONE"),
	}
	// GRPC_ADDR="" explicitly disables gRPC
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		cfg.GRPCAddr = v
	}

	if cfg.SeedCatalog, err = getenvBool("SEED_CATALOG", true); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateRPS, err = getenvFloat("RATE_RPS", 50); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = getenvInt("RATE_BURST", 100); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.CatalogBackend {
	case BackendJSON, BackendMySQL, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("CATALOG_BACKEND must be one of json, mysql, sqlite, got %q", cfg.CatalogBackend)
	}
	if cfg.HTTPAddr == "" {
		return Config{}, errors.New("HTTP_ADDR is required")
	}
	if cfg.RateRPS < 0 {
		return Config{}, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateRPS > 0 && cfg.RateBurst <= 0 {
		return Config{}, errors.New("RATE_BURST must be > 0 when rate limiting is enabled")
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return Config{}, fmt.Errorf("TIMEZONE: %w", err)
		}
	}

	return cfg, nil
}

// Location resolves Timezone. Nil means "keep the clock's location".
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return i, nil
}

func getenvFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

func getenvBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
