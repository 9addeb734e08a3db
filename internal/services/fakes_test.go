package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
)

type coords struct {
	lat, lon float64
}

type fakeGeocoder struct {
	places map[string]coords
	errs   map[string]error
	delays map[string]time.Duration

	mu    sync.Mutex
	calls []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, name string) (float64, float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if d, ok := f.delays[name]; ok {
		time.Sleep(d)
	}
	if err, ok := f.errs[name]; ok {
		return 0, 0, err
	}
	c, ok := f.places[name]
	if !ok {
		return 0, 0, fmt.Errorf("geocoding %q: %w", name, models.ErrGeocodeNotFound)
	}
	return c.lat, c.lon, nil
}

type fakeSource struct {
	series map[coords]models.ForecastSeries
	errs   map[coords]error
}

func (f *fakeSource) GetForecast(ctx context.Context, lat, lon float64) (models.ForecastSeries, error) {
	key := coords{lat, lon}
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.series[key], nil
}

var (
	paris  = coords{48.85341, 2.3488}
	berlin = coords{52.52437, 13.41053}
	prague = coords{50.08804, 14.42076}
)

// makeSeries returns n 3-hour points starting at 2024-07-01 00:00:00.
func makeSeries(n int, baseTemp float64) models.ForecastSeries {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	series := make(models.ForecastSeries, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, models.ForecastPoint{
			Timestamp:    start.Add(time.Duration(i) * 3 * time.Hour).Format("2006-01-02 15:04:05"),
			TemperatureC: baseTemp + float64(i),
			WindSpeedMs:  float64(i) / 2,
			RainMm3h:     float64(i % 2),
		})
	}
	return series
}

func newTestAggregator(geo *fakeGeocoder, src *fakeSource) *RouteAggregator {
	logger := zap.NewNop()
	return NewRouteAggregator(
		NewWaypointResolver(geo, logger),
		NewForecastFetcher(src, logger),
		4,
		logger,
	)
}

func defaultFakes() (*fakeGeocoder, *fakeSource) {
	geo := &fakeGeocoder{
		places: map[string]coords{
			"Paris":  paris,
			"Berlin": berlin,
			"Prague": prague,
		},
	}
	src := &fakeSource{
		series: map[coords]models.ForecastSeries{
			paris:  makeSeries(40, 20),
			berlin: makeSeries(40, 15),
			prague: makeSeries(40, 10),
		},
	}
	return geo, src
}
