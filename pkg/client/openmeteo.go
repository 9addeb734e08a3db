package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"

// OpenMeteoClient resolves place names with the Open-Meteo geocoding search.
type OpenMeteoClient struct {
	transport Transport
	baseURL   string
	language  string
	logger    *zap.Logger
}

type OpenMeteoGeocodingResponse struct {
	Results []struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Elevation   float64 `json:"elevation"`
		CountryCode string  `json:"country_code"`
		Country     string  `json:"country"`
		Admin1      string  `json:"admin1"`
		Timezone    string  `json:"timezone"`
	} `json:"results"`
	GenerationTimeMs float64 `json:"generationtime_ms"`
}

func NewOpenMeteoClient(transport Transport, baseURL, language string, logger *zap.Logger) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	if language == "" {
		language = "en"
	}
	return &OpenMeteoClient{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		language:  language,
		logger:    logger,
	}
}

// Geocode returns the coordinates of the first match for name.
func (c *OpenMeteoClient) Geocode(ctx context.Context, name string) (float64, float64, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", "1")
	params.Set("language", c.language)
	params.Set("format", "json")

	data, err := c.transport.Get(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", name, err)
	}

	var response OpenMeteoGeocodingResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w: failed to parse response: %v", name, models.ErrConnection, err)
	}

	if len(response.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding %q: %w", name, models.ErrGeocodeNotFound)
	}

	match := response.Results[0]
	c.logger.Debug("Geocoded place",
		zap.String("name", name),
		zap.String("match", match.Name),
		zap.String("country", match.Country),
		zap.Float64("latitude", match.Latitude),
		zap.Float64("longitude", match.Longitude))

	return match.Latitude, match.Longitude, nil
}
