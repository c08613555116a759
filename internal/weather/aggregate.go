package weather

import "strconv"

// RainfallTotals summarises precipitation over a forecast.
type RainfallTotals struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	WetDays int     `json:"wetDays"`
}

// AggregateRainfall sums rainfall across all days. Average is over ForecastDays,
// matching the 7-day window the forecast always covers.
func AggregateRainfall(f Forecast) RainfallTotals {
	var t RainfallTotals
	for _, d := range f {
		t.Total += d.Rainfall
		if d.Rainfall > t.Max {
			t.Max = d.Rainfall
		}
		if d.Rainfall > 0 {
			t.WetDays++
		}
	}
	t.Average = t.Total / ForecastDays
	return t
}

// FormatMM renders a millimetre value with one decimal, e.g. "12.3".
func FormatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
