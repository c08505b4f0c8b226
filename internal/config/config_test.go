package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 100, cfg.RainfallLimit)
	assert.Equal(t, "taiwan.json", cfg.BoundaryFile)
	assert.Equal(t, "stations.json", cfg.StationLookupFile)
	assert.Equal(t, DefaultTileURL, cfg.TileURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CWA_API_TOKEN", "CWB-TEST")
	t.Setenv("CWA_BASE_URL", "http://localhost:1234/datastore/")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("RAINFALL_LIMIT", "250")
	t.Setenv("BOUNDARY_FILE", "geo/taiwan.json")
	t.Setenv("STATION_LOOKUP_FILE", "geo/stations.json")
	t.Setenv("TILE_URL", "https://tiles.example/{z}/{x}/{y}.png")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "CWB-TEST", cfg.APIToken)
	assert.Equal(t, "http://localhost:1234/datastore", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 250, cfg.RainfallLimit)
	assert.Equal(t, "geo/taiwan.json", cfg.BoundaryFile)
	assert.Equal(t, "geo/stations.json", cfg.StationLookupFile)
	assert.Equal(t, "https://tiles.example/{z}/{x}/{y}.png", cfg.TileURL)
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidRainfallLimit(t *testing.T) {
	t.Setenv("RAINFALL_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAINFALL_LIMIT")
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadDotEnv())
}
