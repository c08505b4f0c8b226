package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// apiLocation is the station shape shared by the station and rainfall datasets.
type apiLocation struct {
	Lat          flexString `json:"lat"`
	Lon          flexString `json:"lon"`
	LocationName string     `json:"locationName"`
	StationID    string     `json:"stationId"`
	Time         struct {
		ObsTime string `json:"obsTime"`
	} `json:"time"`
	WeatherElement []struct {
		ElementName  string     `json:"elementName"`
		ElementValue flexString `json:"elementValue"`
	} `json:"weatherElement"`
	Parameter []struct {
		ParameterName  string     `json:"parameterName"`
		ParameterValue flexString `json:"parameterValue"`
	} `json:"parameter"`
}

func (l apiLocation) toStation() (Station, error) {
	lat, err := l.Lat.float()
	if err != nil {
		return Station{}, fmt.Errorf("station %s: invalid lat %q", l.StationID, l.Lat)
	}
	lon, err := l.Lon.float()
	if err != nil {
		return Station{}, fmt.Errorf("station %s: invalid lon %q", l.StationID, l.Lon)
	}

	s := Station{
		ID:         l.StationID,
		Name:       l.LocationName,
		Lat:        lat,
		Lon:        lon,
		ObsTime:    l.Time.ObsTime,
		Elements:   make([]Element, 0, len(l.WeatherElement)),
		Parameters: make([]Parameter, 0, len(l.Parameter)),
	}
	for _, e := range l.WeatherElement {
		s.Elements = append(s.Elements, Element{Name: e.ElementName, Value: string(e.ElementValue)})
	}
	for _, p := range l.Parameter {
		s.Parameters = append(s.Parameters, Parameter{Name: p.ParameterName, Value: string(p.ParameterValue)})
	}
	return s, nil
}

// toStations converts the records of dataset, skipping any station whose
// coordinates do not parse.
func (c *Client) toStations(dataset string, locations []apiLocation) []Station {
	stations := make([]Station, 0, len(locations))
	for _, l := range locations {
		s, err := l.toStation()
		if err != nil {
			c.logger.Warn("skipping station", "dataset", dataset, "error", err)
			continue
		}
		stations = append(stations, s)
	}
	return stations
}

// FetchStations retrieves the automatic weather station observations.
func (c *Client) FetchStations(ctx context.Context) ([]Station, error) {
	var records struct {
		Location []apiLocation `json:"location"`
	}
	if err := c.getRecords(ctx, DatasetStations, nil, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch stations: %w", err)
	}
	return c.toStations(DatasetStations, records.Location), nil
}

// FetchRainfall retrieves the rain gauge observations, one entry per station.
func (c *Client) FetchRainfall(ctx context.Context) ([]Station, error) {
	params := url.Values{
		"limit":         {strconv.Itoa(c.rainfallLimit)},
		"parameterName": {"CITY"},
	}
	var records struct {
		Location []apiLocation `json:"location"`
	}
	if err := c.getRecords(ctx, DatasetRainfall, params, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch rainfall: %w", err)
	}
	return c.toStations(DatasetRainfall, records.Location), nil
}
