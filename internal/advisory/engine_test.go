package advisory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

func ptr[T any](v T) *T { return &v }

func forecastWith(t *testing.T, today, tomorrow float64) weather.Forecast {
	t.Helper()
	start := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	rain := []float64{today, tomorrow, 0, 30, 25, 2, 0}
	days := make([]weather.ForecastDay, len(rain))
	for i, r := range rain {
		days[i] = weather.NewDay(start.AddDate(0, 0, i), 31, r, 10, 70)
	}
	f, err := weather.NewForecast(days)
	require.NoError(t, err)
	return f
}

func lowScore() msvi.Score {
	return msvi.Score{Score: 4.2, RiskLevel: msvi.RiskModerate}
}

func byType(recs []Recommendation, typ Type) []Recommendation {
	var out []Recommendation
	for _, r := range recs {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

func types(recs []Recommendation) []Type {
	out := make([]Type, len(recs))
	for i, r := range recs {
		out[i] = r.Type
	}
	return out
}

func TestTodayRule_HeavyRain(t *testing.T) {
	e := NewEngine(DefaultRules())

	recs := e.Generate(forecastWith(t, 25, 0), lowScore(), farm.Profile{Acres: 10})

	urgent := byType(recs, TypeUrgent)
	require.Len(t, urgent, 1)
	assert.Len(t, urgent[0].Actions, 5)
	assert.InDelta(t, 1.5, urgent[0].AffectedAcres, 1e-9)
	assert.Equal(t, "25mm rainfall expected today", urgent[0].Description)
	assert.NotEmpty(t, urgent[0].Impact)
	assert.Equal(t, TypeUrgent, recs[0].Type)
}

func TestQuantitiesAreNotRounded(t *testing.T) {
	e := NewEngine(DefaultRules())

	urgent := byType(e.Generate(forecastWith(t, 25, 0), lowScore(), farm.Profile{Acres: 3.33}), TypeUrgent)
	require.Len(t, urgent, 1)
	assert.InDelta(t, 0.4995, urgent[0].AffectedAcres, 1e-9)
	assert.Contains(t, urgent[0].Impact, "about 0.5 acres")

	critical := byType(e.Generate(nil, msvi.Score{Score: 9}, farm.Profile{Acres: 3.333}), TypeCritical)
	require.Len(t, critical, 1)
	assert.InDelta(t, 6.666, critical[0].MulchTons, 1e-9)
	assert.Contains(t, critical[0].Actions[1], "Apply 6.67 tons")
}

func TestTodayRule_LightRain(t *testing.T) {
	e := NewEngine(DefaultRules())

	recs := e.Generate(forecastWith(t, 3, 0), lowScore(), farm.Profile{Acres: 2})

	require.NotEmpty(t, recs)
	assert.Equal(t, TypeCaution, recs[0].Type)
	assert.Len(t, recs[0].Actions, 4)
}

func TestTodayRule_Boundaries(t *testing.T) {
	e := NewEngine(DefaultRules())

	tests := []struct {
		rain float64
		want Type
	}{
		{20.1, TypeUrgent},
		{20, TypeCaution},
		{0.1, TypeCaution},
		{0, TypeOptimal},
	}
	for _, tt := range tests {
		recs := e.Generate(forecastWith(t, tt.rain, 0), lowScore(), farm.Profile{Acres: 1})
		assert.Equal(t, tt.want, recs[0].Type, "rain %.1f", tt.rain)
	}
}

func TestTodayRule_Clear(t *testing.T) {
	recs := NewEngine(DefaultRules()).Generate(forecastWith(t, 0, 0), lowScore(), farm.Profile{Acres: 1})

	assert.Equal(t, TypeOptimal, recs[0].Type)
	assert.Len(t, recs[0].Actions, 4)
	assert.Equal(t, "Clear day, 31°C - Ideal working conditions", recs[0].Description)
}

func TestScoreRule_Critical(t *testing.T) {
	e := NewEngine(DefaultRules())
	score := msvi.Score{Score: 8.0, RiskLevel: msvi.RiskCritical, EstimatedSoilLoss: 10}

	recs := e.Generate(forecastWith(t, 0, 0), score, farm.Profile{Acres: 5})

	critical := byType(recs, TypeCritical)
	require.Len(t, critical, 1)
	c := critical[0]
	assert.Equal(t, 2000, c.VetiverSlips)
	assert.Equal(t, 10.0, c.MulchTons)
	assert.Equal(t, 60000.0, c.CostINR)
	assert.Equal(t, "Estimated: ₹60,000 for complete protection", c.Cost)
	assert.Contains(t, c.Actions[0], "Plant 2000 Vetiver grass slips")
	assert.NotEmpty(t, c.Example)
	assert.NotEmpty(t, c.Timeframe)
	assert.Equal(t, "Score: 8.0/10 | Est. Soil Loss: 10.0 tons/year", c.Description)
}

func TestScoreRule_CriticalFractionalAcres(t *testing.T) {
	recs := NewEngine(DefaultRules()).Generate(nil, msvi.Score{Score: 9}, farm.Profile{Acres: 2.501})

	require.Len(t, recs, 1)
	assert.Equal(t, 1001, recs[0].VetiverSlips)
}

func TestScoreRule_Bands(t *testing.T) {
	e := NewEngine(DefaultRules())

	tests := []struct {
		score float64
		want  []Type
	}{
		{7.1, []Type{TypeCritical}},
		{7.0, []Type{TypeWarning}},
		{5.1, []Type{TypeWarning}},
		{5.0, nil},
		{1.0, nil},
	}
	for _, tt := range tests {
		recs := e.Generate(nil, msvi.Score{Score: tt.score}, farm.Profile{Acres: 1})
		if tt.want == nil {
			assert.Empty(t, recs, "score %.1f", tt.score)
			continue
		}
		assert.Equal(t, tt.want, types(recs), "score %.1f", tt.score)
	}
}

func TestScoreRule_WarningHasTip(t *testing.T) {
	recs := NewEngine(DefaultRules()).Generate(nil, msvi.Score{Score: 6.2}, farm.Profile{Acres: 1})

	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Actions, 4)
	assert.Contains(t, recs[0].Example, "Cover crops")
}

func TestCropRule_Stages(t *testing.T) {
	e := NewEngine(DefaultRules())

	tests := []struct {
		crop  string
		days  int
		stage string
	}{
		{"Rice", 10, "Seedling"},
		{"Rice", 21, "Tillering"},
		{"Rice", 50, "Reproductive"},
		{"Rice", 90, "Maturity"},
		{"Wheat", 0, "Crown Root Initiation"},
		{"Wheat", 70, "Heading/Flowering"},
		{"wheat", 120, "Maturity"},
		{"Corn", 19, "Emergence/V3"},
		{"Corn (Maize)", 55, "Tasseling/Silking"},
		{"Maize", 85, "Grain Fill/Maturity"},
		{"Cotton", 29, "Seedling"},
		{"Cotton", 45, "Squaring"},
		{"COTTON", 100, "Flowering & Boll Development"},
		{"Cotton", 140, "Boll Opening"},
	}

	for _, tt := range tests {
		t.Run(tt.crop, func(t *testing.T) {
			p := farm.Profile{Acres: 1, HasPlantation: ptr(true), CropType: tt.crop, DaysPlanted: ptr(tt.days)}
			crop := byType(e.Generate(nil, lowScore(), p), TypeCrop)
			require.Len(t, crop, 1)
			assert.Equal(t, tt.stage, crop[0].Stage)
			assert.Len(t, crop[0].Actions, 3)
			assert.NotEmpty(t, crop[0].NextStage)
		})
	}
}

func TestCropRule_UnknownCrop(t *testing.T) {
	p := farm.Profile{Acres: 1, HasPlantation: ptr(true), CropType: "Sugarcane", DaysPlanted: ptr(40)}

	recs := NewEngine(DefaultRules()).Generate(nil, lowScore(), p)

	require.Len(t, recs, 1)
	assert.Equal(t, TypeInfo, recs[0].Type)
	assert.Equal(t, "Day 40 - monitor regularly", recs[0].Description)
	assert.NotEmpty(t, recs[0].Actions)
}

func TestCropRule_SkippedWithoutInputs(t *testing.T) {
	e := NewEngine(DefaultRules())

	profiles := []farm.Profile{
		{Acres: 1},
		{Acres: 1, HasPlantation: ptr(false), CropType: "Rice", DaysPlanted: ptr(10)},
		{Acres: 1, HasPlantation: ptr(true), DaysPlanted: ptr(10)},
		{Acres: 1, HasPlantation: ptr(true), CropType: "Rice"},
	}
	for _, p := range profiles {
		assert.Empty(t, e.Generate(nil, lowScore(), p))
	}
}

func TestTomorrowRule(t *testing.T) {
	e := NewEngine(DefaultRules())

	wet := e.Generate(forecastWith(t, 0, 12), lowScore(), farm.Profile{Acres: 1})
	planning := byType(wet, TypePlanning)
	require.Len(t, planning, 1)
	assert.Equal(t, "Prepare rain protection for vulnerable crops", planning[0].Actions[0])
	assert.Equal(t, "Light Rain, 31°C, 12mm rain expected", planning[0].Description)

	calm := byType(e.Generate(forecastWith(t, 0, 10), lowScore(), farm.Profile{Acres: 1}), TypePlanning)
	require.Len(t, calm, 1)
	assert.Equal(t, "Plan irrigation for early morning", calm[0].Actions[0])
}

func TestTomorrowRule_OmitCalm(t *testing.T) {
	rules := DefaultRules()
	rules.OmitCalmTomorrow = true
	e := NewEngine(rules)

	calm := e.Generate(forecastWith(t, 0, 4), lowScore(), farm.Profile{Acres: 1})
	assert.Empty(t, byType(calm, TypePlanning))

	wet := e.Generate(forecastWith(t, 0, 15), lowScore(), farm.Profile{Acres: 1})
	assert.Len(t, byType(wet, TypePlanning), 1)
}

func TestGenerate_Order(t *testing.T) {
	p := farm.Profile{Acres: 4, HasPlantation: ptr(true), CropType: "Rice", DaysPlanted: ptr(50)}
	score := msvi.Score{Score: 7.5, RiskLevel: msvi.RiskCritical}

	recs := NewEngine(DefaultRules()).Generate(forecastWith(t, 25, 14), score, p)

	assert.Equal(t, []Type{TypeUrgent, TypeCritical, TypeCrop, TypePlanning}, types(recs))
	assert.Equal(t, 2, CountHighPriority(recs))
}

func TestGenerate_CustomThresholds(t *testing.T) {
	rules := DefaultRules()
	rules.LightRainMM = 5

	recs := NewEngine(rules).Generate(forecastWith(t, 3, 0), lowScore(), farm.Profile{Acres: 1})
	assert.Equal(t, TypeOptimal, recs[0].Type)
}

func TestFormatINR(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		999:      "999",
		12000:    "12,000",
		60000:    "60,000",
		120000:   "1,20,000",
		1234567:  "12,34,567",
		12345678: "1,23,45,678",
		-12000:   "-12,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatINR(in))
	}
}

func TestSuitabilityFor(t *testing.T) {
	assert.Nil(t, SuitabilityFor(nil, msvi.RiskLow))
	assert.Nil(t, SuitabilityFor(ptr(true), msvi.RiskLow))

	for _, level := range []msvi.RiskLevel{msvi.RiskLow, msvi.RiskModerate, msvi.RiskHigh, msvi.RiskCritical} {
		s := SuitabilityFor(ptr(false), level)
		require.NotNil(t, s, level)
		assert.Equal(t, level, s.RiskLevel)
		assert.NotEmpty(t, s.SuitableCrops)
		assert.NotEmpty(t, s.Reason)
	}

	a := SuitabilityFor(ptr(false), msvi.RiskHigh)
	a.SuitableCrops[0] = "changed"
	b := SuitabilityFor(ptr(false), msvi.RiskHigh)
	assert.NotEqual(t, "changed", b.SuitableCrops[0])
}
