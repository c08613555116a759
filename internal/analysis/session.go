package analysis

import (
	"time"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/report"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

// Session holds every artifact derived from one farm profile. It is built
// once by Analyzer.Run and never mutated; a restart discards it and runs a
// new analysis.
type Session struct {
	ID              string                    `json:"id"`
	Profile         farm.Profile              `json:"profile"`
	Forecast        weather.Forecast          `json:"forecast"`
	ForecastSource  string                    `json:"forecastSource"`
	FallbackReason  string                    `json:"fallbackReason,omitempty"`
	Score           msvi.Score                `json:"score"`
	Recommendations []advisory.Recommendation `json:"recommendations"`
	Summary         report.Summary            `json:"summary"`
	CreatedAt       time.Time                 `json:"createdAt"`
}
