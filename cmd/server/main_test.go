package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobby-s-dev/route-weather/internal/config"
	"github.com/bobby-s-dev/route-weather/internal/scheduler"
	"github.com/bobby-s-dev/route-weather/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("OPENWEATHER_API_KEY", "key")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	logger := zap.NewNop()
	planner, err := services.NewFromConfig(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(planner.Close)

	warmup := scheduler.NewScheduler(planner, nil, cfg.Warmup.Schedule, logger)
	return newApp(cfg, planner, warmup, logger)
}

func TestNewAppServesJSON(t *testing.T) {
	app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "metrics")
	assert.Contains(t, body, "scheduler")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/route/forecast", strings.NewReader(`{"start":"Paris"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	zap.ReplaceGlobals(zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/plain", func(c *fiber.Ctx) error { return assert.AnError })

	tests := []struct {
		path string
		code int
	}{
		{path: "/teapot", code: http.StatusTeapot},
		{path: "/plain", code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tt.code, resp.StatusCode)

		var body struct {
			Error   string `json:"error"`
			Success bool   `json:"success"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.Error)
		assert.False(t, body.Success)
	}
}
