package dashboard

import (
	"context"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/fetcher"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

func elementField(m weather.Metric) weather.Field[fetcher.Station] {
	return weather.Field[fetcher.Station]{
		Metric: m,
		Value:  func(s fetcher.Station) weather.Value { return s.Element(string(m)) },
	}
}

var temperatureFields = []weather.Field[fetcher.Station]{
	elementField(weather.MetricTemp),
	elementField(weather.MetricMaxTemp),
	elementField(weather.MetricMinTemp),
}

var uvFields = []weather.Field[fetcher.UVReading]{
	{Metric: weather.MetricUVI, Value: func(r fetcher.UVReading) weather.Value { return r.Value }},
}

// TemperatureAggregates returns the current, maximum and minimum
// temperature of every county, built once from the station observations.
func (c *Controller) TemperatureAggregates(ctx context.Context) (weather.Aggregates, error) {
	stations, err := c.stations.get(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tempAg == nil {
		c.tempAg = weather.Aggregate(stations, fetcher.Station.County, temperatureFields)
		c.logger.Debug("temperature aggregates built", "stations", len(stations), "counties", len(c.tempAg))
	}
	return c.tempAg, nil
}

// UVAggregates returns the UV index of every county. Readings are matched
// to counties through the static station lookup; unknown stations are
// skipped.
func (c *Controller) UVAggregates(ctx context.Context) (weather.Aggregates, error) {
	readings, err := c.uv.get(ctx)
	if err != nil {
		return nil, err
	}
	lookup, err := c.lookup.get(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uvAg == nil {
		counties := make(map[string]string, len(lookup))
		for _, s := range lookup {
			counties[s.StationID] = s.CountyName
		}
		region := func(r fetcher.UVReading) string { return counties[r.LocationCode] }
		c.uvAg = weather.Aggregate(readings, region, uvFields)
		c.logger.Debug("uv aggregates built", "readings", len(readings), "counties", len(c.uvAg))
	}
	return c.uvAg, nil
}
