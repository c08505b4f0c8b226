package weather

import (
	"errors"
	"fmt"
)

// ErrSliderPosition is returned for a slider position outside its range.
var ErrSliderPosition = errors.New("slider position out of range")

// RainfallElements is the element order of the rainfall observation records.
var RainfallElements = []string{
	"ELEV", "RAIN", "MIN_10", "HOUR_3", "HOUR_6", "HOUR_12",
	"HOUR_24", "NOW", "latest_2days", "latest_3days",
}

// RainfallWindow is one stop of the rainfall slider.
type RainfallWindow struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Index    int    `json:"index"`
	Element  string `json:"element"`
}

var rainfallLabels = []string{
	"10min", "60min", "3hours", "6hours", "12hours",
	"24hours", "Today", "2days", "3days",
}

const DefaultRainfallPosition = 5

// RainfallElementIndex maps a slider position to a rainfall element index.
// Position 0 is the 10 minute total at index 2 and position 1 the hourly
// total at index 1; every later position is shifted by one past ELEV.
func RainfallElementIndex(pos int) int {
	switch {
	case pos == 0:
		return 2
	case pos > 1:
		return pos + 1
	default:
		return 1
	}
}

// RainfallWindowAt returns the window selected by slider position pos (0-8).
func RainfallWindowAt(pos int) (RainfallWindow, error) {
	if pos < 0 || pos >= len(rainfallLabels) {
		return RainfallWindow{}, fmt.Errorf("rainfall position %d: %w", pos, ErrSliderPosition)
	}
	idx := RainfallElementIndex(pos)
	return RainfallWindow{
		Position: pos,
		Label:    rainfallLabels[pos],
		Index:    idx,
		Element:  RainfallElements[idx],
	}, nil
}

// RainfallWindows lists every rainfall slider stop.
func RainfallWindows() []RainfallWindow {
	out := make([]RainfallWindow, 0, len(rainfallLabels))
	for pos := range rainfallLabels {
		w, _ := RainfallWindowAt(pos)
		out = append(out, w)
	}
	return out
}

// TemperatureVariant is one stop of the temperature slider.
type TemperatureVariant struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Metric   Metric `json:"metric"`
}

var temperatureVariants = []TemperatureVariant{
	{Position: 0, Label: "Minimum", Metric: MetricMinTemp},
	{Position: 1, Label: "Average", Metric: MetricTemp},
	{Position: 2, Label: "Maximum", Metric: MetricMaxTemp},
}

const DefaultTemperaturePosition = 1

// TemperatureVariantAt returns the variant selected by slider position pos (0-2).
func TemperatureVariantAt(pos int) (TemperatureVariant, error) {
	if pos < 0 || pos >= len(temperatureVariants) {
		return TemperatureVariant{}, fmt.Errorf("temperature position %d: %w", pos, ErrSliderPosition)
	}
	return temperatureVariants[pos], nil
}

// TemperatureVariants lists every temperature slider stop.
func TemperatureVariants() []TemperatureVariant {
	return append([]TemperatureVariant(nil), temperatureVariants...)
}
