package advisory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

// Engine evaluates the advisory rules in a fixed order: today's weather, the
// vulnerability score, the crop stage, then tomorrow's weather. Each rule adds
// at most one recommendation and missing inputs skip the rule.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) Generate(forecast weather.Forecast, score msvi.Score, profile farm.Profile) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	if today, ok := forecast.Today(); ok {
		recs = append(recs, e.todayRule(today, profile.Acres))
	}
	if rec, ok := e.scoreRule(score, profile.Acres); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.cropRule(profile); ok {
		recs = append(recs, rec)
	}
	if tomorrow, ok := forecast.Tomorrow(); ok {
		if rec, ok := e.tomorrowRule(tomorrow); ok {
			recs = append(recs, rec)
		}
	}

	return recs
}

func (e *Engine) todayRule(today weather.ForecastDay, acres float64) Recommendation {
	rain := trimFloat(today.Rainfall)
	switch {
	case today.Rainfall > e.rules.HeavyRainMM:
		affected := acres * e.rules.AffectedShare
		return Recommendation{
			Type:        TypeUrgent,
			Title:       "Heavy Rain Alert - Immediate Action Required",
			Description: fmt.Sprintf("%smm rainfall expected today", rain),
			Actions: []string{
				"Check all drainage channels immediately",
				"Cover exposed soil areas with tarps or mulch",
				"Avoid any irrigation today",
				"Create temporary water diversion trenches",
				"Secure loose farming equipment",
			},
			Impact:        fmt.Sprintf("Without action: Risk of 500kg+ soil loss per acre across about %s acres of exposed land", trimFloat(round2(affected))),
			AffectedAcres: affected,
		}
	case today.Rainfall > e.rules.LightRainMM:
		return Recommendation{
			Type:        TypeCaution,
			Title:       "Light Rain Expected - Natural Irrigation Day",
			Description: fmt.Sprintf("%smm rainfall - Good for crops", rain),
			Actions: []string{
				"Skip irrigation today, let rain do the work",
				"Check for waterlogging in low areas",
				"Great day for liquid fertilizer application (after rain)",
				"Monitor seedlings for proper water absorption",
			},
		}
	default:
		return Recommendation{
			Type:        TypeOptimal,
			Title:       "Perfect Weather for Farm Activities",
			Description: fmt.Sprintf("Clear day, %s°C - Ideal working conditions", trimFloat(today.Temperature)),
			Actions: []string{
				"Excellent day for planting or transplanting",
				"Apply morning irrigation (7-9 AM)",
				"Inspect crop health and pest presence",
				"Good time for soil testing and amendments",
			},
		}
	}
}

func (e *Engine) scoreRule(s msvi.Score, acres float64) (Recommendation, bool) {
	switch {
	case s.Score > e.rules.CriticalScore:
		slips := int(math.Ceil(acres * e.rules.VetiverPerAcre))
		mulch := acres * e.rules.MulchTonsPerAcre
		cost := math.Round(acres * e.rules.CostPerAcreINR)
		return Recommendation{
			Type:        TypeCritical,
			Title:       "Critical M-SVI Score - Urgent Soil Protection",
			Description: fmt.Sprintf("Score: %.1f/10 | Est. Soil Loss: %.1f tons/year", s.Score, s.EstimatedSoilLoss),
			Actions: []string{
				fmt.Sprintf("Plant %d Vetiver grass slips (%s per acre) along contours", slips, trimFloat(e.rules.VetiverPerAcre)),
				fmt.Sprintf("Apply %s tons organic mulch (%s tons per acre)", trimFloat(round2(mulch)), trimFloat(e.rules.MulchTonsPerAcre)),
				"Install silt fences at field boundaries immediately",
				"Create vegetative buffer strips 3-5 meters wide",
				"Begin composting to improve soil organic matter",
			},
			Example:      "Success Story: Farmer in Maharashtra reduced M-SVI from 8.2 to 5.1 in 6 months using Vetiver + mulch",
			Timeframe:    "3-6 months to see significant improvement",
			Cost:         fmt.Sprintf("Estimated: ₹%s for complete protection", FormatINR(cost)),
			VetiverSlips: slips,
			MulchTons:    mulch,
			CostINR:      cost,
		}, true
	case s.Score > e.rules.WarningScore:
		return Recommendation{
			Type:        TypeWarning,
			Title:       "High M-SVI - Prevention Better Than Cure",
			Description: fmt.Sprintf("Score: %.1f/10 - Act now before it worsens", s.Score),
			Actions: []string{
				"Plant cover crops in off-season (mustard, clover)",
				"Apply 2-3 inch mulch layer in vulnerable areas",
				"Practice contour farming on slopes",
				"Maintain minimum 30% vegetation cover year-round",
			},
			Example: "Tip: Cover crops can reduce soil erosion by 60-90%",
		}, true
	default:
		return Recommendation{}, false
	}
}

func (e *Engine) cropRule(p farm.Profile) (Recommendation, bool) {
	crop, days, ok := p.CropStageInputs()
	if !ok {
		return Recommendation{}, false
	}

	table, known := lookupCrop(crop)
	if !known {
		return Recommendation{
			Type:        TypeInfo,
			Title:       fmt.Sprintf("%s - Day %d", crop, days),
			Description: fmt.Sprintf("Day %d - monitor regularly", days),
			Actions:     append([]string(nil), genericCare...),
		}, true
	}

	st := table.stageAt(days)
	return Recommendation{
		Type:        TypeCrop,
		Title:       fmt.Sprintf("%s - Day %d (%s Stage)", table.name, days, st.name),
		Description: fmt.Sprintf("Your crop is at a %s stage", strings.ToLower(st.name)),
		Actions:     append([]string(nil), st.care...),
		NextStage:   st.next,
		Stage:       st.name,
	}, true
}

func (e *Engine) tomorrowRule(tomorrow weather.ForecastDay) (Recommendation, bool) {
	wet := tomorrow.Rainfall > e.rules.TomorrowRainMM
	if !wet && e.rules.OmitCalmTomorrow {
		return Recommendation{}, false
	}

	actions := []string{
		"Plan irrigation for early morning",
		"Schedule field inspections",
		"Good day for spraying if needed",
	}
	if wet {
		actions = []string{
			"Prepare rain protection for vulnerable crops",
			"Delay any chemical spray applications",
			"Check rainwater harvesting system capacity",
		}
	}

	return Recommendation{
		Type:  TypePlanning,
		Title: "Tomorrow's Weather Planning",
		Description: fmt.Sprintf("%s, %s°C, %smm rain expected",
			tomorrow.Condition, trimFloat(tomorrow.Temperature), trimFloat(tomorrow.Rainfall)),
		Actions: actions,
	}, true
}

// trimFloat prints v without trailing zeros, e.g. 25 or 3.2.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
