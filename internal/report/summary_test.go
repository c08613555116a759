package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/common"
	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

var now = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestAssemble_Totals(t *testing.T) {
	sim := weather.NewSimulator(common.NewLockedRand(7), nil)
	f := sim.Generate(weather.Coordinate{Lat: 18.52, Lng: 73.85})

	var want float64
	for _, d := range f {
		want += d.Rainfall
	}

	s := Assemble(Input{
		Profile:        farm.Profile{Acres: 3, HasPlantation: ptr(false)},
		Forecast:       f,
		ForecastSource: weather.SimulatedSource,
		Score:          msvi.Score{Score: 6.1, RiskLevel: msvi.RiskHigh, EstimatedSoilLoss: 4.6},
		GeneratedAt:    now,
	})

	assert.InDelta(t, want, s.TotalRainfall, 0.05)
	assert.InDelta(t, want/7, s.AverageDailyRainfall, 0.05)
	assert.Equal(t, weather.SimulatedSource, s.ForecastSource)
	assert.GreaterOrEqual(t, s.WetDays, 2)
	assert.Equal(t, now, s.GeneratedAt)
}

func TestAssemble_Counts(t *testing.T) {
	recs := []advisory.Recommendation{
		{Type: advisory.TypeUrgent},
		{Type: advisory.TypeCritical},
		{Type: advisory.TypeCrop},
		{Type: advisory.TypePlanning},
	}

	s := Assemble(Input{
		Profile:         farm.Profile{Acres: 2, HasPlantation: ptr(true), CropType: "Rice", DaysPlanted: ptr(12)},
		Score:           msvi.Score{Score: 8.1, RiskLevel: msvi.RiskCritical},
		Recommendations: recs,
	})

	assert.Equal(t, 4, s.RecommendationCount)
	assert.Equal(t, 2, s.HighPriorityCount)
	assert.Equal(t, "Rice", s.CropType)
	require.NotNil(t, s.DaysPlanted)
	assert.Equal(t, 12, *s.DaysPlanted)
	assert.Nil(t, s.Suitability)
}

func TestAssemble_SuitabilityForBareFarm(t *testing.T) {
	s := Assemble(Input{
		Profile: farm.Profile{Acres: 2, HasPlantation: ptr(false), CropType: "ignored"},
		Score:   msvi.Score{Score: 2.5, RiskLevel: msvi.RiskLow},
	})

	require.NotNil(t, s.Suitability)
	assert.Equal(t, msvi.RiskLow, s.Suitability.RiskLevel)
	assert.Empty(t, s.CropType)
	assert.Zero(t, s.TotalRainfall)
}
