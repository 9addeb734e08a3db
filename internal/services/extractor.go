package services

import (
	"github.com/bobby-s-dev/route-weather/internal/models"
)

type parameterSpec struct {
	field func(models.ForecastPoint) float64
	label string
	unit  string
	color string
}

// parameterSpecs drives series extraction. Adding a parameter means adding
// an entry here and to models.Parameters.
var parameterSpecs = map[models.Parameter]parameterSpec{
	models.ParamTemp: {
		field: func(p models.ForecastPoint) float64 { return p.TemperatureC },
		label: "Temperature",
		unit:  "°C",
		color: "#FF6A00",
	},
	models.ParamWind: {
		field: func(p models.ForecastPoint) float64 { return p.WindSpeedMs },
		label: "Wind speed",
		unit:  "m/s",
		color: "#00A3E0",
	},
	models.ParamRain: {
		field: func(p models.ForecastPoint) float64 { return p.RainMm3h },
		label: "Precipitation",
		unit:  "mm",
		color: "#00FF00",
	},
}

// ParameterOption describes a selectable parameter.
type ParameterOption struct {
	Value models.Parameter `json:"value"`
	Label string           `json:"label"`
	Unit  string           `json:"unit"`
	Color string           `json:"color"`
}

func ParameterOptions() []ParameterOption {
	options := make([]ParameterOption, 0, len(models.Parameters))
	for _, p := range models.Parameters {
		spec := parameterSpecs[p]
		options = append(options, ParameterOption{
			Value: p,
			Label: spec.label,
			Unit:  spec.unit,
			Color: spec.color,
		})
	}
	return options
}

// SeriesExtractor projects forecast points into per-parameter chart series.
type SeriesExtractor struct{}

func NewSeriesExtractor() *SeriesExtractor {
	return &SeriesExtractor{}
}

// Extract returns one entry per waypoint of result, in route order. Series
// come out in models.Parameters order whatever the request order;
// unknown and repeated parameter values are ignored.
func (e *SeriesExtractor) Extract(result *models.RouteResult, requested []string) []models.WaypointSeries {
	params := selectParameters(requested)

	if result.Empty() {
		return []models.WaypointSeries{}
	}

	out := make([]models.WaypointSeries, 0, len(result.Waypoints))
	for _, wp := range result.Waypoints {
		forecast, _ := result.Series(wp.Name)

		series := make([]models.ChartSeries, 0, len(params))
		for _, p := range params {
			series = append(series, project(p, forecast))
		}

		out = append(out, models.WaypointSeries{
			Waypoint: wp.Name,
			Series:   series,
		})
	}

	return out
}

func selectParameters(requested []string) []models.Parameter {
	wanted := make(map[models.Parameter]bool, len(requested))
	for _, raw := range requested {
		if p, ok := models.ParseParameter(raw); ok {
			wanted[p] = true
		}
	}

	params := make([]models.Parameter, 0, len(wanted))
	for _, p := range models.Parameters {
		if wanted[p] {
			params = append(params, p)
		}
	}
	return params
}

func project(p models.Parameter, forecast models.ForecastSeries) models.ChartSeries {
	spec := parameterSpecs[p]

	points := make([]models.SeriesPoint, 0, len(forecast))
	for _, fp := range forecast {
		points = append(points, models.SeriesPoint{
			Timestamp: fp.Timestamp,
			Value:     spec.field(fp),
		})
	}

	return models.ChartSeries{
		Parameter: p,
		Label:     spec.label,
		Unit:      spec.unit,
		Color:     spec.color,
		Points:    points,
	}
}
