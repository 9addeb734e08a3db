package models

import "errors"

var (
	// ErrGeocodeNotFound means the geocoding service had no match for a name.
	ErrGeocodeNotFound = errors.New("geocode not found")
	// ErrConnection means an upstream call could not complete.
	ErrConnection = errors.New("connection error")
	// ErrEmptyForecast means the forecast call returned no usable entries.
	ErrEmptyForecast = errors.New("empty forecast")
	// ErrEmptyRoute means no waypoint survived the pipeline.
	ErrEmptyRoute = errors.New("no usable waypoints")

	ErrInvalidHorizon = errors.New("horizon must be 1, 3 or 5 days")
	ErrInvalidRoute   = errors.New("route needs a start and an end point")
	ErrNoParameters   = errors.New("at least one forecast parameter is required")
)

// FailureReason classifies why a waypoint was left out of a route.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonGeocodeNotFound FailureReason = "geocode_not_found"
	ReasonConnection      FailureReason = "connection"
	ReasonEmptyForecast   FailureReason = "empty_forecast"
)

// ReasonFor maps a per-waypoint error to its failure reason. Errors outside
// the taxonomy count as connection failures.
func ReasonFor(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrGeocodeNotFound):
		return ReasonGeocodeNotFound
	case errors.Is(err, ErrEmptyForecast):
		return ReasonEmptyForecast
	default:
		return ReasonConnection
	}
}
