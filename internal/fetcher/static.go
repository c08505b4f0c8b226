package fetcher

import (
	"encoding/json"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// RegionProperty is the boundary feature property holding the county name.
const RegionProperty = "NAME_2014"

// LoadBoundaries reads the county boundary FeatureCollection.
func LoadBoundaries(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundaries %s: %w", path, err)
	}
	for i, f := range fc.Features {
		if _, err := f.PropertyString(RegionProperty); err != nil {
			return nil, fmt.Errorf("boundary feature %d has no %s property", i, RegionProperty)
		}
	}
	return fc, nil
}

// LoadStationLookup reads the static station-to-county table.
func LoadStationLookup(path string) ([]StationInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read station lookup: %w", err)
	}

	var doc struct {
		CWBData struct {
			Resources struct {
				Resource struct {
					Data struct {
						StationsStatus struct {
							Station []struct {
								StationID   flexString `json:"StationID"`
								StationName string     `json:"StationName"`
								CountyName  string     `json:"CountyName"`
							} `json:"station"`
						} `json:"stationsStatus"`
					} `json:"data"`
				} `json:"resource"`
			} `json:"resources"`
		} `json:"cwbdata"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse station lookup %s: %w", path, err)
	}

	rows := doc.CWBData.Resources.Resource.Data.StationsStatus.Station
	lookup := make([]StationInfo, 0, len(rows))
	for _, r := range rows {
		lookup = append(lookup, StationInfo{
			StationID:   string(r.StationID),
			StationName: r.StationName,
			CountyName:  r.CountyName,
		})
	}
	return lookup, nil
}
