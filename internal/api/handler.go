package api

import (
	"errors"
	"time"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"github.com/bobby-s-dev/route-weather/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const routePrompt = "Enter the route points and request the forecast."

// WarmupScheduler is the part of the warm-up scheduler the API exposes.
type WarmupScheduler interface {
	ForceRun()
	GetStatus() map[string]interface{}
}

type Handler struct {
	planner *services.RoutePlanner
	warmup  WarmupScheduler
	logger  *zap.Logger
}

func NewHandler(planner *services.RoutePlanner, warmup WarmupScheduler, logger *zap.Logger) *Handler {
	return &Handler{
		planner: planner,
		warmup:  warmup,
		logger:  logger,
	}
}

// GetRouteForecast handles POST /api/v1/route/forecast
func (h *Handler) GetRouteForecast(c *fiber.Ctx) error {
	var req services.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	// Same defaults as the route form.
	if len(req.Parameters) == 0 {
		req.Parameters = []string{string(models.ParamTemp)}
	}
	if req.Horizon == 0 {
		req.Horizon = models.HorizonOneDay
	}

	h.logger.Info("Fetching route forecast",
		zap.String("start", req.Start),
		zap.String("end", req.End),
		zap.Int("stops", len(req.Stops)),
		zap.Strings("parameters", req.Parameters),
		zap.Int("horizon", int(req.Horizon)))

	artifact, err := h.planner.Plan(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidRoute):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   routePrompt,
				"details": err.Error(),
			})
		case errors.Is(err, models.ErrInvalidHorizon), errors.Is(err, models.ErrNoParameters):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		h.logger.Error("Failed to build route forecast", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to build route forecast",
			"details": err.Error(),
		})
	}

	return c.JSON(artifact)
}

// GetParameters handles GET /api/v1/parameters
func (h *Handler) GetParameters(c *fiber.Ctx) error {
	horizons := make([]fiber.Map, 0, len(models.Horizons))
	for _, hz := range models.Horizons {
		horizons = append(horizons, fiber.Map{
			"value": int(hz),
			"steps": hz.Steps(),
		})
	}

	return c.JSON(fiber.Map{
		"parameters": services.ParameterOptions(),
		"horizons":   horizons,
		"defaults": fiber.Map{
			"parameters": []models.Parameter{models.ParamTemp},
			"horizon":    int(models.HorizonOneDay),
		},
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"last_run":  h.planner.Aggregator().GetLastRunTime(),
		"uptime":    time.Since(startTime).String(),
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":   h.planner.GetStats(),
		"scheduler": h.warmup.GetStatus(),
		"timestamp": time.Now(),
	})
}

// TriggerWarmup handles POST /api/v1/warmup
func (h *Handler) TriggerWarmup(c *fiber.Ctx) error {
	go h.warmup.ForceRun()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Route warm-up triggered",
	})
}

var startTime = time.Now()
