package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RouteWarmer primes upstream caches for a route.
type RouteWarmer interface {
	Warm(ctx context.Context, route []string) error
}

// Scheduler periodically warms the response cache for configured routes.
type Scheduler struct {
	warmer     RouteWarmer
	logger     *zap.Logger
	routes     [][]string
	schedule   string
	runTimeout time.Duration
	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	running    bool
	inFlight   bool
	lastRun    time.Time
	lastErrors int
}

func NewScheduler(warmer RouteWarmer, routes [][]string, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		warmer:     warmer,
		logger:     logger,
		routes:     routes,
		schedule:   schedule,
		runTimeout: 60 * time.Second,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
	}
}

// Start registers the warm-up job. It is a no-op without routes.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if len(s.routes) == 0 {
		s.logger.Info("Scheduler disabled, no warm-up routes configured")
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, s.runWarmup)
	if err != nil {
		return fmt.Errorf("invalid warm-up schedule %q: %w", s.schedule, err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("routes", len(s.routes)),
		zap.Time("next_run", s.cron.Entry(id).Next))

	// Run immediately on start
	go s.runWarmup()

	return nil
}

func (s *Scheduler) runWarmup() {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Debug("Skipping warm-up, previous run still in progress")
		return
	}
	s.inFlight = true
	routes := s.routes
	s.mu.Unlock()

	startTime := time.Now()
	failures := 0
	for _, route := range routes {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		err := s.warmer.Warm(ctx, route)
		cancel()

		if err != nil {
			failures++
			s.logger.Warn("Route warm-up failed",
				zap.String("route", strings.Join(route, " > ")),
				zap.Error(err))
		}
	}

	s.mu.Lock()
	s.inFlight = false
	s.lastRun = startTime
	s.lastErrors = failures
	s.mu.Unlock()

	s.logger.Info("Route warm-up completed",
		zap.Int("routes", len(routes)),
		zap.Int("failures", failures),
		zap.Duration("duration", time.Since(startTime)))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// ForceRun warms all routes synchronously.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering route warm-up")
	s.runWarmup()
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":     s.running,
		"schedule":    s.schedule,
		"last_run":    s.lastRun,
		"last_errors": s.lastErrors,
		"routes":      len(s.routes),
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}
