package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobby-s-dev/route-weather/internal/config"
	"github.com/bobby-s-dev/route-weather/internal/models"
	"github.com/bobby-s-dev/route-weather/pkg/client"
	"go.uber.org/zap"
)

// RouteRequest is the form submitted by the presentation layer.
type RouteRequest struct {
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Stops      []string       `json:"stops"`
	Parameters []string       `json:"parameters"`
	Horizon    models.Horizon `json:"horizon"`
}

// RoutePlanner runs the whole pipeline: route normalization, aggregation,
// series extraction and artifact building.
type RoutePlanner struct {
	aggregator *RouteAggregator
	extractor  *SeriesExtractor
	builder    *RenderArtifactBuilder
	cache      *client.ResponseCache
	logger     *zap.Logger
}

func NewRoutePlanner(aggregator *RouteAggregator, cache *client.ResponseCache, logger *zap.Logger) *RoutePlanner {
	return &RoutePlanner{
		aggregator: aggregator,
		extractor:  NewSeriesExtractor(),
		builder:    NewRenderArtifactBuilder(),
		cache:      cache,
		logger:     logger,
	}
}

// NewFromConfig wires both upstream clients onto one shared cache.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*RoutePlanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	clientConfig := client.ClientConfig{
		Timeout:         cfg.HTTP.Timeout,
		MaxRetries:      cfg.Retry.MaxRetries,
		RetryDelay:      cfg.Retry.Delay,
		Multiplier:      cfg.Retry.Multiplier,
		Threshold:       cfg.CircuitBreaker.Threshold,
		BreakerInterval: cfg.CircuitBreaker.Interval,
		BreakerTimeout:  cfg.CircuitBreaker.Timeout,
	}

	cache := client.NewResponseCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger)

	geocoder := client.NewOpenMeteoClient(
		client.NewBaseClient("geocoding", clientConfig, cache, logger),
		cfg.WeatherAPI.GeocodingURL,
		cfg.WeatherAPI.GeocodingLanguage,
		logger,
	)
	logger.Info("Geocoding client initialized", zap.String("url", cfg.WeatherAPI.GeocodingURL))

	forecasts := client.NewOpenWeatherClient(
		client.NewBaseClient("openweather", clientConfig, cache, logger),
		cfg.WeatherAPI.OpenWeatherAPIKey,
		cfg.WeatherAPI.OpenWeatherURL,
		logger,
	)
	logger.Info("OpenWeatherMap client initialized", zap.String("url", cfg.WeatherAPI.OpenWeatherURL))

	aggregator := NewRouteAggregator(
		NewWaypointResolver(geocoder, logger),
		NewForecastFetcher(forecasts, logger),
		cfg.Route.MaxConcurrency,
		logger,
	)

	return NewRoutePlanner(aggregator, cache, logger), nil
}

// NormalizeRoute orders start, non-blank stops and end into one list.
func NormalizeRoute(start, end string, stops []string) ([]string, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, models.ErrInvalidRoute
	}

	route := make([]string, 0, len(stops)+2)
	route = append(route, start)
	for _, stop := range stops {
		if stop = strings.TrimSpace(stop); stop != "" {
			route = append(route, stop)
		}
	}
	route = append(route, end)

	return route, nil
}

// Plan validates req and produces the render artifact. A route with no
// usable waypoint is not an error: the artifact carries the no-data
// placeholder.
func (p *RoutePlanner) Plan(ctx context.Context, req RouteRequest) (*models.RenderArtifact, error) {
	route, err := NormalizeRoute(req.Start, req.End, req.Stops)
	if err != nil {
		return nil, err
	}
	if len(req.Parameters) == 0 {
		return nil, models.ErrNoParameters
	}

	report, err := p.aggregator.Aggregate(ctx, route, req.Horizon)
	if err != nil {
		return nil, err
	}

	series := p.extractor.Extract(report.Result, req.Parameters)
	return p.builder.Build(report.Result, series), nil
}

// Warm runs the aggregation for route at the longest horizon so upstream
// responses land in the cache.
func (p *RoutePlanner) Warm(ctx context.Context, route []string) error {
	report, err := p.aggregator.Aggregate(ctx, route, models.HorizonFiveDays)
	if err != nil {
		return err
	}
	if report.Empty() {
		return fmt.Errorf("warm %s: %w", strings.Join(route, " > "), models.ErrEmptyRoute)
	}
	return nil
}

func (p *RoutePlanner) Aggregator() *RouteAggregator {
	return p.aggregator
}

func (p *RoutePlanner) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"aggregator": p.aggregator.GetStats(),
	}
	if p.cache != nil {
		stats["cache_stats"] = p.cache.GetStats()
	}
	return stats
}

func (p *RoutePlanner) Close() {
	if p.cache != nil {
		p.cache.Stop()
	}
}
