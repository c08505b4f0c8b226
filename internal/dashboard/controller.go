package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	geojson "github.com/paulmach/go.geojson"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/fetcher"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/observability"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// ErrUnknownCategory is returned for a category name the dashboard does not have.
var ErrUnknownCategory = errors.New("unknown overlay category")

// Source provides the remote observation datasets.
type Source interface {
	FetchStations(ctx context.Context) ([]fetcher.Station, error)
	FetchRainfall(ctx context.Context) ([]fetcher.Station, error)
	FetchUV(ctx context.Context) ([]fetcher.UVReading, error)
}

// Files names the static inputs.
type Files struct {
	Boundaries    string
	StationLookup string
}

// Controller owns the shared dashboard state: the datasets fetched so far
// and the aggregates derived from them. Every dataset is fetched at most
// once per Controller. The canvas of each browser lives in a View.
type Controller struct {
	metrics *observability.Metrics
	logger  *slog.Logger

	stations   *dataset[[]fetcher.Station]
	rainfall   *dataset[[]fetcher.Station]
	uv         *dataset[[]fetcher.UVReading]
	boundaries *dataset[*geojson.FeatureCollection]
	lookup     *dataset[[]fetcher.StationInfo]

	mu     sync.Mutex
	tempAg weather.Aggregates
	uvAg   weather.Aggregates
}

// New creates a controller. Views opened on it share its datasets.
func New(src Source, files Files, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	return &Controller{
		metrics:  metrics,
		logger:   logger,
		stations: newDataset("stations", metrics, src.FetchStations),
		rainfall: newDataset("rainfall", metrics, src.FetchRainfall),
		uv:       newDataset("uv", metrics, src.FetchUV),
		boundaries: newDataset("boundaries", metrics, func(context.Context) (*geojson.FeatureCollection, error) {
			return fetcher.LoadBoundaries(files.Boundaries)
		}),
		lookup: newDataset("station_lookup", metrics, func(context.Context) ([]fetcher.StationInfo, error) {
			return fetcher.LoadStationLookup(files.StationLookup)
		}),
	}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (overlay.Category, error) {
	for _, c := range overlay.Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownCategory)
}

// DefaultPosition is the initial slider position of a category.
func DefaultPosition(c overlay.Category) int {
	switch c {
	case overlay.CategoryRainfall:
		return weather.DefaultRainfallPosition
	case overlay.CategoryTemperature:
		return weather.DefaultTemperaturePosition
	default:
		return 0
	}
}

// Render builds the overlay for category c at slider position pos without
// touching any canvas.
func (c *Controller) Render(ctx context.Context, cat overlay.Category, pos int) (*overlay.Layer, error) {
	if err := validatePosition(cat, pos); err != nil {
		return nil, err
	}

	switch cat {
	case overlay.CategoryStations:
		return c.renderStations(ctx)
	case overlay.CategoryRainfall:
		return c.renderRainfall(ctx, pos)
	case overlay.CategoryUVI:
		return c.renderUVI(ctx)
	case overlay.CategoryTemperature:
		return c.renderTemperature(ctx, pos)
	default:
		return nil, fmt.Errorf("%q: %w", cat, ErrUnknownCategory)
	}
}

func validatePosition(cat overlay.Category, pos int) error {
	switch cat {
	case overlay.CategoryRainfall:
		_, err := weather.RainfallWindowAt(pos)
		return err
	case overlay.CategoryTemperature:
		_, err := weather.TemperatureVariantAt(pos)
		return err
	}
	return nil
}

// OutlineLayer builds the county outline layer.
func (c *Controller) OutlineLayer(ctx context.Context) (*overlay.Layer, error) {
	boundaries, err := c.boundaries.get(ctx)
	if err != nil {
		return nil, err
	}
	return overlay.Outline(boundaries), nil
}

// CheckReadiness reports whether the static inputs can be loaded.
func (c *Controller) CheckReadiness(ctx context.Context) error {
	if _, err := c.boundaries.get(ctx); err != nil {
		return err
	}
	_, err := c.lookup.get(ctx)
	return err
}

// Stations returns the memoized station observations.
func (c *Controller) Stations(ctx context.Context) ([]fetcher.Station, error) {
	return c.stations.get(ctx)
}

// RainGauges returns the memoized rain gauge observations.
func (c *Controller) RainGauges(ctx context.Context) ([]fetcher.Station, error) {
	return c.rainfall.get(ctx)
}

func (c *Controller) renderStations(ctx context.Context) (*overlay.Layer, error) {
	stations, err := c.stations.get(ctx)
	if err != nil {
		return nil, err
	}
	return overlay.Markers(stations), nil
}

func (c *Controller) renderRainfall(ctx context.Context, pos int) (*overlay.Layer, error) {
	window, err := weather.RainfallWindowAt(pos)
	if err != nil {
		return nil, err
	}
	gauges, err := c.rainfall.get(ctx)
	if err != nil {
		return nil, err
	}
	return overlay.RainfallHeatmap(gauges, window), nil
}

func (c *Controller) renderUVI(ctx context.Context) (*overlay.Layer, error) {
	agg, err := c.UVAggregates(ctx)
	if err != nil {
		return nil, err
	}
	boundaries, err := c.boundaries.get(ctx)
	if err != nil {
		return nil, err
	}
	return overlay.Choropleth(overlay.CategoryUVI, boundaries, agg, weather.MetricUVI, weather.UVITable), nil
}

func (c *Controller) renderTemperature(ctx context.Context, pos int) (*overlay.Layer, error) {
	variant, err := weather.TemperatureVariantAt(pos)
	if err != nil {
		return nil, err
	}
	agg, err := c.TemperatureAggregates(ctx)
	if err != nil {
		return nil, err
	}
	boundaries, err := c.boundaries.get(ctx)
	if err != nil {
		return nil, err
	}
	layer := overlay.Choropleth(overlay.CategoryTemperature, boundaries, agg, variant.Metric, weather.TemperatureTable)
	layer.Param = &overlay.Param{Position: variant.Position, Label: variant.Label}
	return layer, nil
}

// Positions lists every slider position of a category.
func Positions(c overlay.Category) []int {
	var n int
	switch c {
	case overlay.CategoryRainfall:
		n = len(weather.RainfallWindows())
	case overlay.CategoryTemperature:
		n = len(weather.TemperatureVariants())
	default:
		n = 1
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
