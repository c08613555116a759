package msvi

import (
	"math"

	"github.com/i474232898/agroplastiguard/internal/common"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Factor weights. They sum to 1.0.
const (
	weightMicroplastic = 0.35
	weightErosion      = 0.25
	weightVegetation   = 0.20
	weightRoughness    = 0.15
	weightUrban        = 0.05
)

// soilLossPerAcre is the tons/year lost by one acre at the maximum score.
const soilLossPerAcre = 2.5

// MaxScore is the upper bound of the index.
const MaxScore = 10.0

// Factors are integer percentages in [0, 100].
type Factors struct {
	MicroplasticProximity int `json:"microplasticProximity"`
	SoilErosion           int `json:"soilErosion"`
	VegetationCover       int `json:"vegetationCover"`
	SurfaceRoughness      int `json:"surfaceRoughness"`
	UrbanProximity        int `json:"urbanProximity"`
}

// Score is the computed index for one analysis run.
type Score struct {
	Score             float64   `json:"score"`
	RiskLevel         RiskLevel `json:"riskLevel"`
	Explanation       string    `json:"explanation"`
	EstimatedSoilLoss float64   `json:"estimatedSoilLoss"`
	Factors           Factors   `json:"factors"`
}

// RiskLevelFor maps a score onto its level. Boundaries are exclusive, so 7.0
// is High and 5.0 is Moderate.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score > 7:
		return RiskCritical
	case score > 5:
		return RiskHigh
	case score > 3:
		return RiskModerate
	default:
		return RiskLow
	}
}

var explanations = map[RiskLevel]string{
	RiskCritical: "Critical microplastic contamination risk detected. Immediate soil protection measures required.",
	RiskHigh:     "High soil vulnerability. Active monitoring and intervention needed.",
	RiskModerate: "Moderate risk level. Preventive measures recommended.",
	RiskLow:      "Low vulnerability. Maintain current soil management practices.",
}

// Explanation returns the templated text for a level.
func Explanation(level RiskLevel) string {
	return explanations[level]
}

// Scorer draws soil factors from an injected random source.
type Scorer struct {
	rng common.Rand
}

func NewScorer(rng common.Rand) *Scorer {
	return &Scorer{rng: rng}
}

// Compute draws a fresh set of factors and scores them. Vegetation cover has a
// higher baseline when the farm is planted.
func (s *Scorer) Compute(hasPlantation bool, acres float64) Score {
	return ScoreFromFactors(s.drawFactors(hasPlantation), acres)
}

func (s *Scorer) drawFactors(hasPlantation bool) Factors {
	vegLo, vegHi := 20.0, 50.0
	if hasPlantation {
		vegLo, vegHi = 60, 80
	}
	return Factors{
		MicroplasticProximity: s.draw(60, 90),
		SoilErosion:           s.draw(50, 80),
		VegetationCover:       s.draw(vegLo, vegHi),
		SurfaceRoughness:      s.draw(30, 70),
		UrbanProximity:        s.draw(40, 70),
	}
}

func (s *Scorer) draw(lo, hi float64) int {
	return int(math.Round(common.Uniform(s.rng, lo, hi)))
}

// ScoreFromFactors is the deterministic part of Compute.
func ScoreFromFactors(f Factors, acres float64) Score {
	sum := float64(f.MicroplasticProximity)*weightMicroplastic +
		float64(f.SoilErosion)*weightErosion +
		float64(f.VegetationCover)*weightVegetation +
		float64(f.SurfaceRoughness)*weightRoughness +
		float64(f.UrbanProximity)*weightUrban

	score := common.Round1(sum / 10)
	score = math.Max(0, math.Min(MaxScore, score))

	level := RiskLevelFor(score)
	return Score{
		Score:             score,
		RiskLevel:         level,
		Explanation:       Explanation(level),
		EstimatedSoilLoss: SoilLoss(score, acres),
		Factors:           f,
	}
}

// SoilLoss estimates tons/year lost for the given score and acreage.
func SoilLoss(score, acres float64) float64 {
	if acres <= 0 {
		return 0
	}
	return common.Round1(score / MaxScore * acres * soilLossPerAcre)
}
