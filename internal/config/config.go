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
	DefaultBaseURL = "https://opendata.cwb.gov.tw/api/v1/rest/datastore"
	DefaultTileURL = "https://tiles.stadiamaps.com/tiles/alidade_smooth_dark/{z}/{x}/{y}{r}.png"
)

// Config holds all dashboard settings, populated from environment variables.
type Config struct {
	AppEnv          string
	LogLevel        slog.Level
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Central Weather Bureau open data API.
	APIToken      string
	BaseURL       string
	FetchTimeout  time.Duration
	RainfallLimit int

	// Static inputs.
	BoundaryFile      string
	StationLookupFile string
	TileURL           string
}

// LoadDotEnv loads a .env file from the working directory when one exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	appEnv := envOrDefault("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	rainfallLimit, err := strconv.Atoi(envOrDefault("RAINFALL_LIMIT", "100"))
	if err != nil || rainfallLimit <= 0 {
		return nil, errors.New("invalid RAINFALL_LIMIT: must be a positive integer")
	}

	cfg := &Config{
		AppEnv:            appEnv,
		LogLevel:          level,
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout:   shutdownTimeout,
		APIToken:          strings.TrimSpace(os.Getenv("CWA_API_TOKEN")),
		BaseURL:           strings.TrimRight(envOrDefault("CWA_BASE_URL", DefaultBaseURL), "/"),
		FetchTimeout:      fetchTimeout,
		RainfallLimit:     rainfallLimit,
		BoundaryFile:      envOrDefault("BOUNDARY_FILE", "taiwan.json"),
		StationLookupFile: envOrDefault("STATION_LOOKUP_FILE", "stations.json"),
		TileURL:           envOrDefault("TILE_URL", DefaultTileURL),
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("CWA_BASE_URL is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
