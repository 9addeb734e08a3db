package services

import (
	"github.com/bobby-s-dev/route-weather/internal/models"
)

const (
	NoDataMessage = "No data available to display."

	traceMode = "markers+lines"
	traceName = "Route"
)

// RenderArtifactBuilder assembles the map trace and chart bundles.
type RenderArtifactBuilder struct{}

func NewRenderArtifactBuilder() *RenderArtifactBuilder {
	return &RenderArtifactBuilder{}
}

// Build never returns an empty chart list: a route without waypoints yields
// the no-data placeholder instead.
func (b *RenderArtifactBuilder) Build(result *models.RouteResult, series []models.WaypointSeries) *models.RenderArtifact {
	artifact := &models.RenderArtifact{
		Map:    b.BuildMapTrace(result),
		Charts: []models.ChartBundle{},
	}

	if result.Empty() {
		artifact.NoData = true
		artifact.Placeholder = NoDataMessage
		return artifact
	}

	byWaypoint := make(map[string][]models.ChartSeries, len(series))
	for _, ws := range series {
		byWaypoint[ws.Waypoint] = ws.Series
	}

	for _, wp := range result.Waypoints {
		charts := byWaypoint[wp.Name]
		if charts == nil {
			charts = []models.ChartSeries{}
		}
		artifact.Charts = append(artifact.Charts, models.ChartBundle{
			Waypoint: wp.Name,
			Title:    "Forecast for " + wp.Name,
			XAxis:    "Time",
			YAxis:    "Values",
			Series:   charts,
		})
	}

	return artifact
}

func (b *RenderArtifactBuilder) BuildMapTrace(result *models.RouteResult) models.MapTrace {
	trace := models.MapTrace{
		Latitudes:  []float64{},
		Longitudes: []float64{},
		Labels:     []string{},
		Mode:       traceMode,
		Name:       traceName,
	}
	if result.Empty() {
		return trace
	}

	points := result.TracePoints()
	for _, wp := range points {
		trace.Latitudes = append(trace.Latitudes, wp.Latitude)
		trace.Longitudes = append(trace.Longitudes, wp.Longitude)
		trace.Labels = append(trace.Labels, wp.Name)
	}

	first := points[0]
	trace.Center = &models.MapCenter{Latitude: first.Latitude, Longitude: first.Longitude}

	return trace
}
