package weather

import (
	"math"
	"time"

	"github.com/i474232898/agroplastiguard/internal/common"
)

const (
	heavyRainMM = 20.0
	lightRainMM = 0.0
)

// ConditionForRainfall derives the condition label from a day's rainfall.
func ConditionForRainfall(mm float64) Condition {
	switch {
	case mm > heavyRainMM:
		return ConditionHeavyRain
	case mm > lightRainMM:
		return ConditionLightRain
	default:
		return ConditionSunny
	}
}

// NewDay builds a normalised ForecastDay: temperature, wind and humidity are
// rounded to integers, rainfall to one decimal and clamped at zero, and the
// condition is derived from rainfall.
func NewDay(day time.Time, tempC, rainMM, windKph, humidityPct float64) ForecastDay {
	rain := common.Round1(math.Max(rainMM, 0))
	day = StartOfDay(day)
	return ForecastDay{
		Day:         day,
		Date:        DayLabel(day),
		Temperature: math.Round(tempC),
		Rainfall:    rain,
		WindSpeed:   math.Round(windKph),
		Humidity:    math.Round(math.Min(math.Max(humidityPct, 0), 100)),
		Condition:   ConditionForRainfall(rain),
	}
}
