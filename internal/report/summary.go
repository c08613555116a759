package report

import (
	"time"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/common"
	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

// Summary is the view-model shown on the analysis screen.
type Summary struct {
	Location    farm.Location `json:"location"`
	Acres       float64       `json:"acres"`
	CropType    string        `json:"cropType,omitempty"`
	DaysPlanted *int          `json:"daysPlanted,omitempty"`

	Score             float64        `json:"score"`
	RiskLevel         msvi.RiskLevel `json:"riskLevel"`
	EstimatedSoilLoss float64        `json:"estimatedSoilLoss"`

	TotalRainfall        float64 `json:"totalRainfall"`
	AverageDailyRainfall float64 `json:"averageDailyRainfall"`
	MaxDailyRainfall     float64 `json:"maxDailyRainfall"`
	WetDays              int     `json:"wetDays"`

	RecommendationCount int    `json:"recommendationCount"`
	HighPriorityCount   int    `json:"highPriorityCount"`
	ForecastSource      string `json:"forecastSource"`

	Suitability *advisory.Suitability `json:"suitability,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// Input bundles the already-computed artifacts of one analysis run.
type Input struct {
	Profile         farm.Profile
	Forecast        weather.Forecast
	ForecastSource  string
	Score           msvi.Score
	Recommendations []advisory.Recommendation
	GeneratedAt     time.Time
}

// Assemble aggregates the inputs. It is pure: nothing is fetched or computed
// beyond sums and counts.
func Assemble(in Input) Summary {
	rain := weather.AggregateRainfall(in.Forecast)

	s := Summary{
		Location:             in.Profile.Location,
		Acres:                in.Profile.Acres,
		Score:                in.Score.Score,
		RiskLevel:            in.Score.RiskLevel,
		EstimatedSoilLoss:    in.Score.EstimatedSoilLoss,
		TotalRainfall:        common.Round1(rain.Total),
		AverageDailyRainfall: common.Round1(rain.Average),
		MaxDailyRainfall:     rain.Max,
		WetDays:              rain.WetDays,
		RecommendationCount:  len(in.Recommendations),
		HighPriorityCount:    advisory.CountHighPriority(in.Recommendations),
		ForecastSource:       in.ForecastSource,
		Suitability:          advisory.SuitabilityFor(in.Profile.HasPlantation, in.Score.RiskLevel),
		GeneratedAt:          in.GeneratedAt,
	}

	if in.Profile.Planted() {
		s.CropType = in.Profile.CropType
		s.DaysPlanted = in.Profile.DaysPlanted
	}

	return s
}
