package overlay

import (
	"encoding/json"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/fetcher"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

func testBoundaries() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, name := range []string{"臺北市", "花蓮縣", "連江縣"} {
		f := geojson.NewPolygonFeature([][][]float64{{{121, 25}, {122, 25}, {122, 26}, {121, 25}}})
		f.SetProperty(fetcher.RegionProperty, name)
		fc.AddFeature(f)
	}
	return fc
}

func styleOf(t *testing.T, f *geojson.Feature) PathStyle {
	t.Helper()
	style, ok := f.Properties[StyleProperty].(PathStyle)
	require.True(t, ok, "feature has no style")
	return style
}

func TestOutline(t *testing.T) {
	boundaries := testBoundaries()

	l := Outline(boundaries)

	assert.Equal(t, KindOutline, l.Kind)
	require.Len(t, l.Features.Features, 3)
	assert.Equal(t, PathStyle{Color: "white", Weight: 0.5, Opacity: 0.1, FillOpacity: 0}, styleOf(t, l.Features.Features[0]))
	assert.NotContains(t, boundaries.Features[0].Properties, StyleProperty, "source boundaries must not be modified")
}

func TestMarkers(t *testing.T) {
	stations := []fetcher.Station{
		{ID: "466920", Name: "臺北", Lat: 25.0377, Lon: 121.5149, ObsTime: "2023-06-20 14:00:00"},
		{ID: "X<1>", Name: "<b>bad</b>", Lat: 24, Lon: 121},
	}

	l := Markers(stations)

	assert.Equal(t, CategoryStations, l.Category)
	assert.Equal(t, KindMarkers, l.Kind)
	require.Len(t, l.Markers, 2)

	m := l.Markers[0]
	assert.Equal(t, 25.0377, m.Lat)
	assert.Equal(t, 121.5149, m.Lon)
	assert.Equal(t, 5.0, m.Radius)
	assert.Equal(t, PathStyle{Color: "transparent", FillColor: "white", FillOpacity: 0.7}, m.Style)
	assert.Contains(t, m.Popup, "臺北")
	assert.Contains(t, m.Popup, "466920")
	assert.Contains(t, m.Popup, "2023-06-20 14:00:00")
	assert.Contains(t, m.Popup, "Lon: 121.5149 Lat: 25.0377")

	assert.NotContains(t, l.Markers[1].Popup, "<b>")
	assert.Contains(t, l.Markers[1].Popup, "&lt;b&gt;bad&lt;/b&gt;")
}

func TestRainfallHeatmap(t *testing.T) {
	stations := []fetcher.Station{
		{Lat: 23.97, Lon: 121.6, Elements: []fetcher.Element{{Name: "HOUR_24", Value: "24.0"}, {Name: "MIN_10", Value: "0.5"}}},
		{Lat: 22.75, Lon: 121.15, Elements: []fetcher.Element{{Name: "HOUR_24", Value: "-99"}}},
		{Lat: 25.0, Lon: 121.5, Elements: []fetcher.Element{{Name: "HOUR_24", Value: "140"}}},
	}
	window, err := weather.RainfallWindowAt(weather.DefaultRainfallPosition)
	require.NoError(t, err)

	l := RainfallHeatmap(stations, window)

	assert.Equal(t, KindHeatmap, l.Kind)
	assert.Equal(t, &Param{Position: 5, Label: "24hours"}, l.Param)
	require.NotNil(t, l.Heatmap)
	assert.Equal(t, float64(HeatmapMax), l.Heatmap.Max)
	assert.Equal(t, 50.0, l.Heatmap.Options.Radius)
	assert.Equal(t, 0.5, l.Heatmap.Options.MaxOpacity)
	assert.True(t, l.Heatmap.Options.UseLocalExtrema)
	assert.Equal(t, []HeatPoint{
		{X: 121.6, Y: 23.97, Value: 24, Color: "rgb(0,200,0)"},
		{X: 121.5, Y: 25.0, Value: 140, Color: "rgb(170,0,170)"},
	}, l.Heatmap.Data)
	assert.NotEmpty(t, l.Legend)
}

func TestChoropleth(t *testing.T) {
	agg := weather.Aggregates{
		"臺北市": {weather.MetricTemp: weather.Of(38), weather.MetricMinTemp: weather.Of(26)},
		"花蓮縣": {weather.MetricTemp: weather.Value{}},
	}

	l := Choropleth(CategoryTemperature, testBoundaries(), agg, weather.MetricTemp, weather.TemperatureTable)

	assert.Equal(t, CategoryTemperature, l.Category)
	assert.Equal(t, KindChoropleth, l.Kind)
	require.Len(t, l.Features.Features, 3)

	taipei := l.Features.Features[0]
	assert.Equal(t, "red", styleOf(t, taipei).FillColor)
	assert.Equal(t, 38.0, taipei.Properties["TEMP"])
	assert.Equal(t, 26.0, taipei.Properties["D_TN"])

	hualien := l.Features.Features[1]
	assert.Empty(t, styleOf(t, hualien).FillColor, "absent aggregate leaves the county unstyled")
	assert.NotContains(t, hualien.Properties, "TEMP")

	lienchiang := l.Features.Features[2]
	assert.Equal(t, PathStyle{Color: "white", Weight: 1, FillOpacity: 0.3}, styleOf(t, lienchiang), "county without stations")
}

func TestChoropleth_DoesNotModifyBoundaries(t *testing.T) {
	boundaries := testBoundaries()
	agg := weather.Aggregates{"臺北市": {weather.MetricUVI: weather.Of(7)}}

	Choropleth(CategoryUVI, boundaries, agg, weather.MetricUVI, weather.UVITable)

	for _, f := range boundaries.Features {
		assert.Len(t, f.Properties, 1)
	}
}

func TestLayer_JSON(t *testing.T) {
	agg := weather.Aggregates{"臺北市": {weather.MetricUVI: weather.Of(7)}}
	l := Choropleth(CategoryUVI, testBoundaries(), agg, weather.MetricUVI, weather.UVITable)

	b, err := json.Marshal(l)
	require.NoError(t, err)

	var decoded struct {
		Kind     string `json:"kind"`
		Features struct {
			Features []struct {
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "choropleth", decoded.Kind)
	style := decoded.Features.Features[0].Properties["style"].(map[string]any)
	assert.Equal(t, "brown", style["fillColor"])
	assert.Equal(t, 0.3, style["fillOpacity"])
}
