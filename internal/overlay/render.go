package overlay

import (
	"fmt"
	"html"

	geojson "github.com/paulmach/go.geojson"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/fetcher"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// StyleProperty is the feature property the page reads a feature's style from.
const StyleProperty = "style"

// HeatmapMax is the value that saturates the rainfall heatmap.
const HeatmapMax = 100

// Outline draws the county borders without fill.
func Outline(boundaries *geojson.FeatureCollection) *Layer {
	style := PathStyle{Color: "white", Weight: 0.5, Opacity: 0.1, FillOpacity: 0}
	fc := geojson.NewFeatureCollection()
	for _, f := range boundaries.Features {
		c := copyFeature(f)
		c.SetProperty(StyleProperty, style)
		fc.AddFeature(c)
	}
	return &Layer{Kind: KindOutline, Features: fc}
}

// Markers places one circle marker per station.
func Markers(stations []fetcher.Station) *Layer {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		markers = append(markers, Marker{
			Lat:    s.Lat,
			Lon:    s.Lon,
			Radius: 5,
			Style:  PathStyle{Color: "transparent", FillColor: "white", FillOpacity: 0.7},
			Popup:  stationPopup(s),
		})
	}
	return &Layer{Category: CategoryStations, Kind: KindMarkers, Markers: markers}
}

func stationPopup(s fetcher.Station) string {
	return fmt.Sprintf(
		"<h3>Station: %s</h3><p>Station ID: %s</p><p>Observed: %s</p><p>Lon: %g Lat: %g</p>",
		html.EscapeString(s.Name), html.EscapeString(s.ID), html.EscapeString(s.ObsTime), s.Lon, s.Lat,
	)
}

// RainfallHeatmap plots the rainfall total of window at every gauge. Gauges with no
// reading for the window are left out.
func RainfallHeatmap(stations []fetcher.Station, window weather.RainfallWindow) *Layer {
	points := make([]HeatPoint, 0, len(stations))
	for _, s := range stations {
		v := s.ElementAt(window.Element, window.Index)
		if !v.Valid {
			continue
		}
		color, _ := weather.RainfallTable.Classify(v)
		points = append(points, HeatPoint{X: s.Lon, Y: s.Lat, Value: v.Float, Color: color})
	}
	return &Layer{
		Category: CategoryRainfall,
		Kind:     KindHeatmap,
		Param:    &Param{Position: window.Position, Label: window.Label},
		Heatmap: &Heatmap{
			Options: HeatmapOptions{
				Radius:          50,
				ScaleRadius:     false,
				UseLocalExtrema: true,
				LatField:        "y",
				LngField:        "x",
				ValueField:      "value",
				MaxOpacity:      0.5,
			},
			Max:  HeatmapMax,
			Data: points,
		},
		Legend: weather.RainfallTable.Legend(),
	}
}

// Choropleth fills every county with the color of its aggregate for metric.
//
// The boundaries are copied, never modified. Each copy carries every valid
// aggregate of its county as a property named after the metric. Counties
// with no aggregate, or no value for metric, get the border style only.
func Choropleth(category Category, boundaries *geojson.FeatureCollection, agg weather.Aggregates, metric weather.Metric, table weather.ColorTable) *Layer {
	fc := geojson.NewFeatureCollection()
	for _, f := range boundaries.Features {
		c := copyFeature(f)
		region, _ := f.PropertyString(fetcher.RegionProperty)

		for m, v := range agg[region] {
			if v.Valid {
				c.SetProperty(string(m), v.Float)
			}
		}

		style := PathStyle{Color: "white", Weight: 1, FillOpacity: 0.3}
		if color, ok := table.Classify(agg.Get(region, metric)); ok {
			style.FillColor = color
		}
		c.SetProperty(StyleProperty, style)
		fc.AddFeature(c)
	}
	return &Layer{Category: category, Kind: KindChoropleth, Features: fc, Legend: table.Legend()}
}

// copyFeature shares the geometry and copies the properties.
func copyFeature(f *geojson.Feature) *geojson.Feature {
	c := geojson.NewFeature(f.Geometry)
	c.ID = f.ID
	c.BoundingBox = f.BoundingBox
	for k, v := range f.Properties {
		c.Properties[k] = v
	}
	return c
}
