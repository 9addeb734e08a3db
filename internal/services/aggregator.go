package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 4

// RouteAggregator resolves and fetches every waypoint of a route and keeps
// the ones that produced both coordinates and a forecast.
type RouteAggregator struct {
	resolver       *WaypointResolver
	fetcher        *ForecastFetcher
	logger         *zap.Logger
	maxConcurrency int

	mu            sync.RWMutex
	lastRunTime   time.Time
	runCount      int
	emptyRuns     int
	includedCount int
	excluded      map[models.FailureReason]int
}

// AggregateReport is the outcome of one aggregation run. Outcomes follows
// the order of the distinct input names.
type AggregateReport struct {
	Result   *models.RouteResult
	Outcomes []models.WaypointOutcome
}

func (r *AggregateReport) Empty() bool {
	return r == nil || r.Result.Empty()
}

func NewRouteAggregator(resolver *WaypointResolver, fetcher *ForecastFetcher, maxConcurrency int, logger *zap.Logger) *RouteAggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &RouteAggregator{
		resolver:       resolver,
		fetcher:        fetcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		excluded:       make(map[models.FailureReason]int),
	}
}

type waypointTask struct {
	waypoint models.Waypoint
	series   models.ForecastSeries
	outcome  models.WaypointOutcome
}

// Aggregate processes names concurrently and reassembles the result in
// input order. Per-waypoint failures never surface as errors; only an
// invalid horizon does. Blank names are skipped. A name repeated later in
// the route is processed once and its series is shared by every occurrence
// in the trace.
func (a *RouteAggregator) Aggregate(ctx context.Context, names []string, horizon models.Horizon) (*AggregateReport, error) {
	if !horizon.Valid() {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidHorizon, horizon)
	}

	startTime := time.Now()
	distinct := distinctNames(names)
	if len(distinct) < len(names) {
		a.logger.Debug("Repeated waypoints processed once",
			zap.Strings("route", names),
			zap.Int("distinct", len(distinct)))
	}

	tasks := make([]waypointTask, len(distinct))

	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)
	for i, name := range distinct {
		i, name := i, name
		g.Go(func() error {
			tasks[i] = a.processWaypoint(ctx, name, horizon)
			return nil
		})
	}
	_ = g.Wait()

	var (
		waypoints []models.Waypoint
		series    []models.ForecastSeries
		outcomes  = make([]models.WaypointOutcome, 0, len(tasks))
		included  = make(map[string]models.Waypoint, len(tasks))
	)
	for _, task := range tasks {
		outcomes = append(outcomes, task.outcome)
		if !task.outcome.Included {
			continue
		}
		waypoints = append(waypoints, task.waypoint)
		series = append(series, task.series)
		included[task.waypoint.Name] = task.waypoint
	}

	result := models.EmptyRouteResult()
	if len(waypoints) > 0 {
		var err error
		result, err = models.NewLoopRouteResult(waypoints, series, routeTrace(names, included))
		if err != nil {
			return nil, err
		}
	}

	a.recordRun(outcomes, result.Empty())

	if result.Empty() {
		a.logger.Warn("No usable waypoints in route",
			zap.Strings("route", names),
			zap.Error(models.ErrEmptyRoute))
	}

	a.logger.Info("Route aggregation completed",
		zap.Int("waypoints", len(distinct)),
		zap.Int("included", len(result.Waypoints)),
		zap.Int("horizon_days", int(horizon)),
		zap.Duration("duration", time.Since(startTime)))

	return &AggregateReport{Result: result, Outcomes: outcomes}, nil
}

func (a *RouteAggregator) processWaypoint(ctx context.Context, name string, horizon models.Horizon) waypointTask {
	task := waypointTask{outcome: models.WaypointOutcome{Name: name}}

	wp, err := a.resolver.Resolve(ctx, name)
	if err != nil {
		task.outcome.Reason = models.ReasonFor(err)
		a.logger.Warn("Waypoint excluded",
			zap.String("waypoint", name),
			zap.String("reason", string(task.outcome.Reason)),
			zap.Error(err))
		return task
	}

	fetched := a.fetcher.Fetch(ctx, wp)
	if !fetched.OK() {
		task.outcome.Reason = fetched.Reason
		a.logger.Warn("Waypoint excluded",
			zap.String("waypoint", name),
			zap.String("reason", string(fetched.Reason)),
			zap.Error(fetched.Err))
		return task
	}

	sliced := fetched.Series.Truncate(horizon)
	if len(sliced) == 0 {
		task.outcome.Reason = models.ReasonEmptyForecast
		return task
	}

	task.waypoint = wp
	task.series = sliced
	task.outcome.Included = true
	task.outcome.Points = len(sliced)
	return task
}

func (a *RouteAggregator) recordRun(outcomes []models.WaypointOutcome, empty bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastRunTime = time.Now()
	a.runCount++
	if empty {
		a.emptyRuns++
	}
	for _, o := range outcomes {
		if o.Included {
			a.includedCount++
			continue
		}
		a.excluded[o.Reason]++
	}
}

func (a *RouteAggregator) GetLastRunTime() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastRunTime
}

func (a *RouteAggregator) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	excluded := make(map[string]int, len(a.excluded))
	for reason, count := range a.excluded {
		excluded[string(reason)] = count
	}

	return map[string]interface{}{
		"last_run_time":      a.lastRunTime,
		"runs":               a.runCount,
		"empty_runs":         a.emptyRuns,
		"waypoints_included": a.includedCount,
		"waypoints_excluded": excluded,
		"max_concurrency":    a.maxConcurrency,
	}
}

// routeTrace lists the included waypoint for every non-blank entry of names,
// repeats included.
func routeTrace(names []string, included map[string]models.Waypoint) []models.Waypoint {
	trace := make([]models.Waypoint, 0, len(names))
	for _, name := range names {
		if wp, ok := included[strings.TrimSpace(name)]; ok {
			trace = append(trace, wp)
		}
	}
	return trace
}

func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
