package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.Duration)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, 4, cfg.Route.MaxConcurrency)
	assert.Equal(t, "en", cfg.WeatherAPI.GeocodingLanguage)
	assert.Empty(t, cfg.Warmup.Routes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "key")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("GEOCODING_LANGUAGE", "ru")
	t.Setenv("ROUTE_MAX_CONCURRENCY", "8")
	t.Setenv("WARMUP_ROUTES", "Paris, Berlin; Moscow,Kazan,Samara;Lonely")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "ru", cfg.WeatherAPI.GeocodingLanguage)
	assert.Equal(t, 8, cfg.Route.MaxConcurrency)
	assert.Equal(t, [][]string{
		{"Paris", "Berlin"},
		{"Moscow", "Kazan", "Samara"},
	}, cfg.Warmup.Routes)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.HTTP.Timeout = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}
