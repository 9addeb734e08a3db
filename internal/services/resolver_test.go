package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWaypointResolver(t *testing.T) {
	geo, _ := defaultFakes()
	geo.errs = map[string]error{
		"Offline": errors.New("dial tcp: i/o timeout"),
	}
	resolver := NewWaypointResolver(geo, zap.NewNop())

	tests := []struct {
		name    string
		input   string
		want    models.Waypoint
		wantErr error
	}{
		{
			name:  "known place",
			input: "Paris",
			want:  models.ResolvedWaypoint("Paris", paris.lat, paris.lon),
		},
		{
			name:  "surrounding whitespace",
			input: "  Berlin ",
			want:  models.ResolvedWaypoint("Berlin", berlin.lat, berlin.lon),
		},
		{
			name:    "no match",
			input:   "Atlantis",
			wantErr: models.ErrGeocodeNotFound,
		},
		{
			name:    "untyped failure becomes connection error",
			input:   "Offline",
			wantErr: models.ErrConnection,
		},
		{
			name:    "blank name",
			input:   "   ",
			wantErr: models.ErrGeocodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp, err := resolver.Resolve(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, wp.Resolved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, wp)
		})
	}
}

func TestForecastFetcherSoftFails(t *testing.T) {
	_, src := defaultFakes()
	src.errs = map[coords]error{berlin: errors.New("HTTP 500")}
	src.series[prague] = models.ForecastSeries{}
	fetcher := NewForecastFetcher(src, zap.NewNop())

	tests := []struct {
		name     string
		waypoint models.Waypoint
		reason   models.FailureReason
		points   int
	}{
		{name: "success", waypoint: models.ResolvedWaypoint("Paris", paris.lat, paris.lon), points: 40},
		{name: "upstream error", waypoint: models.ResolvedWaypoint("Berlin", berlin.lat, berlin.lon), reason: models.ReasonConnection},
		{name: "no entries", waypoint: models.ResolvedWaypoint("Prague", prague.lat, prague.lon), reason: models.ReasonEmptyForecast},
		{name: "unresolved waypoint", waypoint: models.Waypoint{Name: "Atlantis"}, reason: models.ReasonGeocodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := fetcher.Fetch(context.Background(), tt.waypoint)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Len(t, res.Series, tt.points)
			assert.Equal(t, tt.reason == models.ReasonNone, res.OK())
			if !res.OK() {
				assert.Error(t, res.Err)
			}
		})
	}
}
