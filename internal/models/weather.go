package models

// StepsPerDay is the number of 3-hour forecast steps in one day.
const StepsPerDay = 8

// Horizon is the number of forecast days requested for a route.
type Horizon int

const (
	HorizonOneDay    Horizon = 1
	HorizonThreeDays Horizon = 3
	HorizonFiveDays  Horizon = 5
)

// Horizons lists the selectable horizons in display order.
var Horizons = []Horizon{HorizonOneDay, HorizonThreeDays, HorizonFiveDays}

func (h Horizon) Valid() bool {
	switch h {
	case HorizonOneDay, HorizonThreeDays, HorizonFiveDays:
		return true
	}
	return false
}

// Steps returns the number of forecast points covered by the horizon.
func (h Horizon) Steps() int {
	return StepsPerDay * int(h)
}

// ForecastPoint is one 3-hour forecast entry. RainMm3h is 0 when the
// upstream entry carries no precipitation block.
type ForecastPoint struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedMs  float64 `json:"wind_speed_ms"`
	RainMm3h     float64 `json:"rain_mm_3h"`
}

// ForecastSeries is the ordered forecast of a single waypoint.
type ForecastSeries []ForecastPoint

// Truncate returns a copy holding at most h.Steps() leading points.
func (s ForecastSeries) Truncate(h Horizon) ForecastSeries {
	n := h.Steps()
	if n > len(s) {
		n = len(s)
	}
	if n < 0 {
		n = 0
	}

	out := make(ForecastSeries, n)
	copy(out, s[:n])
	return out
}
