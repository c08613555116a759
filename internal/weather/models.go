package weather

import (
	"fmt"
	"time"
)

// Condition is the high-level weather label shown for a forecast day.
type Condition string

const (
	ConditionSunny        Condition = "Sunny"
	ConditionLightRain    Condition = "Light Rain"
	ConditionHeavyRain    Condition = "Heavy Rain"
	ConditionCloudy       Condition = "Cloudy"
	ConditionPartlyCloudy Condition = "Partly Cloudy"
)

// ForecastDays is the fixed length of every Forecast.
const ForecastDays = 7

// Coordinate is a WGS-84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Key returns a canonical string key for logs and metrics labels.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

// Valid reports whether the coordinate lies within WGS-84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// ForecastDay is one day's weather summary.
type ForecastDay struct {
	Day         time.Time `json:"day"`  // UTC midnight
	Date        string    `json:"date"` // display label, e.g. "Oct 17"
	Temperature float64   `json:"temp"`
	Rainfall    float64   `json:"rainfall"`
	WindSpeed   float64   `json:"windSpeed"`
	Humidity    float64   `json:"humidity"`
	Condition   Condition `json:"condition"`
}

// Forecast is an ordered sequence of exactly ForecastDays days, day 0 being today.
// Values returned by NewForecast are never mutated afterwards.
type Forecast []ForecastDay

// NewForecast validates length and chronological order.
func NewForecast(days []ForecastDay) (Forecast, error) {
	if len(days) != ForecastDays {
		return nil, fmt.Errorf("%w: expected %d days, got %d", ErrInvalidForecast, ForecastDays, len(days))
	}
	for i, d := range days {
		if d.Rainfall < 0 {
			return nil, fmt.Errorf("%w: negative rainfall on day %d", ErrInvalidForecast, i)
		}
		if i > 0 && !d.Day.After(days[i-1].Day) {
			return nil, fmt.Errorf("%w: day %d is not after day %d", ErrInvalidForecast, i, i-1)
		}
	}
	out := make(Forecast, len(days))
	copy(out, days)
	return out, nil
}

// Today returns day 0.
func (f Forecast) Today() (ForecastDay, bool) {
	return f.day(0)
}

// Tomorrow returns day 1.
func (f Forecast) Tomorrow() (ForecastDay, bool) {
	return f.day(1)
}

func (f Forecast) day(i int) (ForecastDay, bool) {
	if i >= len(f) {
		return ForecastDay{}, false
	}
	return f[i], true
}

// DayLabel formats a day the way the UI shows it, e.g. "Oct 17".
func DayLabel(t time.Time) string {
	return t.Format("Jan 2")
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
