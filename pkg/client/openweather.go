package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/route-weather/internal/models"
	"go.uber.org/zap"
)

const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient reads the OpenWeatherMap 5 day / 3 hour forecast.
type OpenWeatherClient struct {
	transport Transport
	apiKey    string
	baseURL   string
	logger    *zap.Logger
}

type OpenWeatherForecastResponse struct {
	Cod     string          `json:"cod"`
	Message json.RawMessage `json:"message"`
	Cnt     int             `json:"cnt"`
	List    []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Pressure  float64 `json:"pressure"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
			Gust  float64 `json:"gust"`
		} `json:"wind"`
		Rain *struct {
			ThreeH *float64 `json:"3h"`
		} `json:"rain"`
		Pop   float64 `json:"pop"`
		DtTxt string  `json:"dt_txt"`
	} `json:"list"`
	City struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func NewOpenWeatherClient(transport Transport, apiKey, baseURL string, logger *zap.Logger) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherClient{
		transport: transport,
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// GetForecast returns every 3-hour entry the service offers for the
// coordinates, in upstream order.
func (c *OpenWeatherClient) GetForecast(ctx context.Context, lat, lon float64) (models.ForecastSeries, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	data, err := c.transport.Get(ctx, c.baseURL+"/forecast?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	var response OpenWeatherForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	if response.Cod != "200" {
		return nil, fmt.Errorf("API error: %s", response.Cod)
	}

	series := make(models.ForecastSeries, 0, len(response.List))
	for _, item := range response.List {
		rain := 0.0
		if item.Rain != nil && item.Rain.ThreeH != nil {
			rain = *item.Rain.ThreeH
		}

		series = append(series, models.ForecastPoint{
			Timestamp:    item.DtTxt,
			TemperatureC: item.Main.Temp,
			WindSpeedMs:  item.Wind.Speed,
			RainMm3h:     rain,
		})
	}

	c.logger.Debug("Forecast fetched",
		zap.String("city", response.City.Name),
		zap.Int("points", len(series)))

	return series, nil
}
