package services

import (
	"context"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
)

type ForecastSource interface {
	GetForecast(ctx context.Context, lat, lon float64) (models.ForecastSeries, error)
}

// FetchResult carries either a non-empty series or the reason there is none.
type FetchResult struct {
	Series models.ForecastSeries
	Reason models.FailureReason
	Err    error
}

func (r FetchResult) OK() bool {
	return r.Reason == models.ReasonNone
}

// ForecastFetcher fetches full 3-hour series by coordinates. It never
// returns an error: failures come back as an empty series with a reason.
type ForecastFetcher struct {
	source ForecastSource
	logger *zap.Logger
}

func NewForecastFetcher(source ForecastSource, logger *zap.Logger) *ForecastFetcher {
	return &ForecastFetcher{
		source: source,
		logger: logger,
	}
}

func (f *ForecastFetcher) Fetch(ctx context.Context, wp models.Waypoint) FetchResult {
	if !wp.Resolved {
		return FetchResult{Reason: models.ReasonGeocodeNotFound, Err: models.ErrGeocodeNotFound}
	}

	series, err := f.source.GetForecast(ctx, wp.Latitude, wp.Longitude)
	if err != nil {
		f.logger.Warn("Failed to fetch forecast",
			zap.String("waypoint", wp.Name),
			zap.Error(err))
		return FetchResult{Reason: models.ReasonConnection, Err: err}
	}

	if len(series) == 0 {
		return FetchResult{Reason: models.ReasonEmptyForecast, Err: models.ErrEmptyForecast}
	}

	return FetchResult{Series: series}
}
