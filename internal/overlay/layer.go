package overlay

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// Category is a dashboard view. Only one category overlay is mounted at a time.
type Category string

const (
	CategoryStations    Category = "stations"
	CategoryRainfall    Category = "rainfall"
	CategoryUVI         Category = "uvi"
	CategoryTemperature Category = "temperature"
)

// Categories lists the overlay categories in button order.
var Categories = []Category{CategoryStations, CategoryRainfall, CategoryUVI, CategoryTemperature}

// Kind tells the page which Leaflet layer type to build.
type Kind string

const (
	KindOutline    Kind = "outline"
	KindMarkers    Kind = "markers"
	KindHeatmap    Kind = "heatmap"
	KindChoropleth Kind = "choropleth"
)

// PathStyle mirrors the Leaflet path options the page applies.
type PathStyle struct {
	Color       string  `json:"color,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Marker is a circle marker with a hover popup.
type Marker struct {
	Lat    float64   `json:"lat"`
	Lon    float64   `json:"lon"`
	Radius float64   `json:"radius"`
	Style  PathStyle `json:"style"`
	Popup  string    `json:"popup"`
}

// HeatPoint is one heatmap sample. X is longitude and Y latitude.
type HeatPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// HeatmapOptions are the heatmap overlay settings.
type HeatmapOptions struct {
	Radius          float64 `json:"radius"`
	ScaleRadius     bool    `json:"scaleRadius"`
	UseLocalExtrema bool    `json:"useLocalExtrema"`
	LatField        string  `json:"latField"`
	LngField        string  `json:"lngField"`
	ValueField      string  `json:"valueField"`
	MaxOpacity      float64 `json:"maxOpacity"`
}

// Heatmap is the data and settings of a heatmap layer.
type Heatmap struct {
	Options HeatmapOptions `json:"options"`
	Max     float64        `json:"max"`
	Data    []HeatPoint    `json:"data"`
}

// Param records the slider parameter a layer was rendered with.
type Param struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
}

// Layer is a renderable map layer.
type Layer struct {
	ID       string                     `json:"id"`
	Category Category                   `json:"category,omitempty"`
	Kind     Kind                       `json:"kind"`
	Param    *Param                     `json:"param,omitempty"`
	Markers  []Marker                   `json:"markers,omitempty"`
	Heatmap  *Heatmap                   `json:"heatmap,omitempty"`
	Features *geojson.FeatureCollection `json:"features,omitempty"`
	Legend   []weather.LegendEntry      `json:"legend,omitempty"`
}
