package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// Element is a named weather element value as reported by the API.
type Element struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parameter is a named station attribute such as CITY or TOWN.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Station is one observation station reading.
type Station struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Lat        float64     `json:"lat"`
	Lon        float64     `json:"lon"`
	ObsTime    string      `json:"obsTime"`
	Elements   []Element   `json:"elements"`
	Parameters []Parameter `json:"parameters"`
}

// Element returns the named element value, absent when the station does not report it.
func (s Station) Element(name string) weather.Value {
	for _, e := range s.Elements {
		if e.Name == name {
			return weather.Parse(e.Value)
		}
	}
	return weather.Value{}
}

// ElementAt looks an element up by name and falls back to its position.
func (s Station) ElementAt(name string, index int) weather.Value {
	for _, e := range s.Elements {
		if e.Name == name {
			return weather.Parse(e.Value)
		}
	}
	if index >= 0 && index < len(s.Elements) && s.Elements[index].Name == "" {
		return weather.Parse(s.Elements[index].Value)
	}
	return weather.Value{}
}

// Parameter returns the named parameter value or "".
func (s Station) Parameter(name string) string {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// County is the administrative region of the station: its CITY parameter,
// or the first parameter when CITY is not present.
func (s Station) County() string {
	if c := s.Parameter("CITY"); c != "" {
		return c
	}
	if len(s.Parameters) > 0 {
		return s.Parameters[0].Value
	}
	return ""
}

// UVReading is one UV index observation keyed by station code.
type UVReading struct {
	LocationCode string        `json:"locationCode"`
	Value        weather.Value `json:"value"`
}

// StationInfo is a row of the static station lookup table.
type StationInfo struct {
	StationID   string `json:"StationID"`
	StationName string `json:"StationName"`
	CountyName  string `json:"CountyName"`
}

// flexString decodes a JSON string or number into its text form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) float() (float64, error) {
	return strconv.ParseFloat(string(f), 64)
}
