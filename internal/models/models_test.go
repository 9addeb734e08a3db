package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateCopies(t *testing.T) {
	series := make(ForecastSeries, 12)
	for i := range series {
		series[i] = ForecastPoint{Timestamp: fmt.Sprint(i)}
	}

	got := series.Truncate(HorizonOneDay)
	require.Len(t, got, 8)
	got[0].Timestamp = "changed"
	assert.Equal(t, "0", series[0].Timestamp)

	assert.Len(t, series.Truncate(HorizonFiveDays), 12)
	assert.Empty(t, ForecastSeries(nil).Truncate(HorizonThreeDays))
}

func TestHorizonValid(t *testing.T) {
	for _, h := range Horizons {
		assert.True(t, h.Valid())
	}
	for _, h := range []Horizon{0, 2, 4, 6} {
		assert.False(t, h.Valid())
	}
	assert.Equal(t, 24, HorizonThreeDays.Steps())
}

func TestNewRouteResult(t *testing.T) {
	_, err := NewRouteResult([]Waypoint{{Name: "A"}}, nil)
	assert.Error(t, err)

	_, err = NewRouteResult(
		[]Waypoint{{Name: "A"}, {Name: "A"}},
		[]ForecastSeries{{}, {}},
	)
	assert.Error(t, err)

	result, err := NewRouteResult(
		[]Waypoint{ResolvedWaypoint("A", 1, 2), ResolvedWaypoint("B", 3, 4)},
		[]ForecastSeries{{{Timestamp: "a"}}, {{Timestamp: "b"}}},
	)
	require.NoError(t, err)
	assert.False(t, result.Empty())
	s, ok := result.Series("B")
	require.True(t, ok)
	assert.Equal(t, "b", s[0].Timestamp)

	assert.Equal(t, result.Waypoints, result.TracePoints())

	var nilResult *RouteResult
	assert.True(t, nilResult.Empty())
	assert.Nil(t, nilResult.TracePoints())
	assert.True(t, EmptyRouteResult().Empty())
}

func TestNewLoopRouteResult(t *testing.T) {
	a, b := ResolvedWaypoint("A", 1, 2), ResolvedWaypoint("B", 3, 4)
	waypoints := []Waypoint{a, b}
	series := []ForecastSeries{{{Timestamp: "a"}}, {{Timestamp: "b"}}}

	result, err := NewLoopRouteResult(waypoints, series, []Waypoint{a, b, a})
	require.NoError(t, err)
	assert.Len(t, result.Waypoints, 2)
	assert.Len(t, result.Forecasts, 2)
	assert.Equal(t, []Waypoint{a, b, a}, result.TracePoints())

	_, err = NewLoopRouteResult(waypoints, series, []Waypoint{a, ResolvedWaypoint("C", 5, 6)})
	assert.Error(t, err)
}

func TestReasonFor(t *testing.T) {
	tests := []struct {
		err  error
		want FailureReason
	}{
		{nil, ReasonNone},
		{fmt.Errorf("x: %w", ErrGeocodeNotFound), ReasonGeocodeNotFound},
		{fmt.Errorf("x: %w", ErrEmptyForecast), ReasonEmptyForecast},
		{fmt.Errorf("x: %w", ErrConnection), ReasonConnection},
		{errors.New("anything else"), ReasonConnection},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReasonFor(tt.err))
	}
}

func TestParseParameter(t *testing.T) {
	p, ok := ParseParameter(" Wind ")
	assert.True(t, ok)
	assert.Equal(t, ParamWind, p)

	_, ok = ParseParameter("humidity")
	assert.False(t, ok)
}
