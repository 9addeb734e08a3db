package models

import "fmt"

type Waypoint struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Resolved  bool    `json:"resolved"`
}

// ResolvedWaypoint returns a waypoint carrying coordinates.
func ResolvedWaypoint(name string, lat, lon float64) Waypoint {
	return Waypoint{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Resolved:  true,
	}
}

// RouteResult holds the waypoints that survived geocoding and forecast
// fetching, in input order, with one series per waypoint name.
// Trace lists every surviving route entry, so a place visited twice appears
// twice there and once in Waypoints.
// A RouteResult is built once per aggregation run and never mutated.
type RouteResult struct {
	Waypoints []Waypoint                `json:"waypoints"`
	Forecasts map[string]ForecastSeries `json:"forecasts"`
	Trace     []Waypoint                `json:"trace"`
}

// NewRouteResult pairs waypoints with their series. Both slices must have
// the same length and waypoint names must be unique.
func NewRouteResult(waypoints []Waypoint, series []ForecastSeries) (*RouteResult, error) {
	if len(waypoints) != len(series) {
		return nil, fmt.Errorf("route result: %d waypoints for %d series", len(waypoints), len(series))
	}

	result := &RouteResult{
		Waypoints: make([]Waypoint, 0, len(waypoints)),
		Forecasts: make(map[string]ForecastSeries, len(waypoints)),
		Trace:     make([]Waypoint, 0, len(waypoints)),
	}
	for i, wp := range waypoints {
		if _, dup := result.Forecasts[wp.Name]; dup {
			return nil, fmt.Errorf("route result: duplicate waypoint %q", wp.Name)
		}
		result.Waypoints = append(result.Waypoints, wp)
		result.Forecasts[wp.Name] = series[i]
	}
	result.Trace = append(result.Trace, result.Waypoints...)

	return result, nil
}

// NewLoopRouteResult is NewRouteResult with an explicit trace. Every trace
// entry must name one of waypoints.
func NewLoopRouteResult(waypoints []Waypoint, series []ForecastSeries, trace []Waypoint) (*RouteResult, error) {
	result, err := NewRouteResult(waypoints, series)
	if err != nil {
		return nil, err
	}

	for _, wp := range trace {
		if _, ok := result.Forecasts[wp.Name]; !ok {
			return nil, fmt.Errorf("route result: trace waypoint %q has no forecast", wp.Name)
		}
	}
	result.Trace = append(make([]Waypoint, 0, len(trace)), trace...)

	return result, nil
}

// EmptyRouteResult is the result of a run where no waypoint survived.
func EmptyRouteResult() *RouteResult {
	return &RouteResult{
		Waypoints: []Waypoint{},
		Forecasts: map[string]ForecastSeries{},
		Trace:     []Waypoint{},
	}
}

func (r *RouteResult) Empty() bool {
	return r == nil || len(r.Waypoints) == 0
}

// TracePoints returns the route entries to draw on the map.
func (r *RouteResult) TracePoints() []Waypoint {
	if r == nil {
		return nil
	}
	if len(r.Trace) > 0 {
		return r.Trace
	}
	return r.Waypoints
}

func (r *RouteResult) Series(name string) (ForecastSeries, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.Forecasts[name]
	return s, ok
}

// WaypointOutcome records what happened to one route entry.
type WaypointOutcome struct {
	Name     string        `json:"name"`
	Included bool          `json:"included"`
	Reason   FailureReason `json:"reason"`
	Points   int           `json:"points"`
}
