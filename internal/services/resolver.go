package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
)

type Geocoder interface {
	Geocode(ctx context.Context, name string) (float64, float64, error)
}

// WaypointResolver turns a place name into a resolved waypoint. The first
// geocoding match always wins.
type WaypointResolver struct {
	geocoder Geocoder
	logger   *zap.Logger
}

func NewWaypointResolver(geocoder Geocoder, logger *zap.Logger) *WaypointResolver {
	return &WaypointResolver{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Resolve fails with models.ErrGeocodeNotFound or models.ErrConnection.
func (r *WaypointResolver) Resolve(ctx context.Context, name string) (models.Waypoint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Waypoint{}, fmt.Errorf("empty waypoint name: %w", models.ErrGeocodeNotFound)
	}

	lat, lon, err := r.geocoder.Geocode(ctx, name)
	if err != nil {
		if !errors.Is(err, models.ErrGeocodeNotFound) && !errors.Is(err, models.ErrConnection) {
			err = fmt.Errorf("%w: %v", models.ErrConnection, err)
		}
		return models.Waypoint{Name: name}, err
	}

	return models.ResolvedWaypoint(name, lat, lon), nil
}
