package fetcher

import (
	"context"
	"fmt"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// FetchUV retrieves the latest UV index observations.
func (c *Client) FetchUV(ctx context.Context) ([]UVReading, error) {
	var records struct {
		WeatherElement struct {
			Location []struct {
				LocationCode flexString `json:"locationCode"`
				Value        flexString `json:"value"`
			} `json:"location"`
		} `json:"weatherElement"`
	}
	if err := c.getRecords(ctx, DatasetUV, nil, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch UV index: %w", err)
	}

	readings := make([]UVReading, 0, len(records.WeatherElement.Location))
	for _, l := range records.WeatherElement.Location {
		readings = append(readings, UVReading{
			LocationCode: string(l.LocationCode),
			Value:        weather.Parse(string(l.Value)),
		})
	}
	return readings, nil
}
