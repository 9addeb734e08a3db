package models

import "strings"

// Parameter is a forecast quantity that can be charted.
type Parameter string

const (
	ParamTemp Parameter = "temp"
	ParamWind Parameter = "wind"
	ParamRain Parameter = "rain"
)

// Parameters lists the known parameters in chart order.
var Parameters = []Parameter{ParamTemp, ParamWind, ParamRain}

// ParseParameter returns false for values outside the known set.
func ParseParameter(s string) (Parameter, bool) {
	p := Parameter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Parameters {
		if p == known {
			return p, true
		}
	}
	return "", false
}

type SeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

type ChartSeries struct {
	Parameter Parameter     `json:"parameter"`
	Label     string        `json:"label"`
	Unit      string        `json:"unit"`
	Color     string        `json:"color"`
	Points    []SeriesPoint `json:"points"`
}

// WaypointSeries groups the extracted series of one waypoint.
type WaypointSeries struct {
	Waypoint string        `json:"waypoint"`
	Series   []ChartSeries `json:"series"`
}

type MapCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapTrace is a connected marker line over the included waypoints.
type MapTrace struct {
	Latitudes  []float64  `json:"latitudes"`
	Longitudes []float64  `json:"longitudes"`
	Labels     []string   `json:"labels"`
	Mode       string     `json:"mode"`
	Name       string     `json:"name"`
	Center     *MapCenter `json:"center,omitempty"`
}

type ChartBundle struct {
	Waypoint string        `json:"waypoint"`
	Title    string        `json:"title"`
	XAxis    string        `json:"x_axis"`
	YAxis    string        `json:"y_axis"`
	Series   []ChartSeries `json:"series"`
}

// RenderArtifact is the pipeline output handed to the presentation layer.
// When NoData is set Charts is empty and Placeholder carries the message to show.
type RenderArtifact struct {
	Map         MapTrace      `json:"map"`
	Charts      []ChartBundle `json:"charts"`
	NoData      bool          `json:"no_data"`
	Placeholder string        `json:"placeholder,omitempty"`
}
