package advisory

import "github.com/i474232898/agroplastiguard/internal/msvi"

// Suitability lists crops that tolerate the soil's vulnerability level. It is
// only produced for farms with nothing planted.
type Suitability struct {
	RiskLevel     msvi.RiskLevel `json:"riskLevel"`
	SuitableCrops []string       `json:"suitableCrops"`
	Reason        string         `json:"reason"`
}

var suitabilityByRisk = map[msvi.RiskLevel]Suitability{
	msvi.RiskLow: {
		SuitableCrops: []string{"Rice", "Wheat", "Sugarcane", "Vegetables"},
		Reason:        "Stable soil with good structure can carry water-intensive and high-value crops.",
	},
	msvi.RiskModerate: {
		SuitableCrops: []string{"Wheat", "Corn (Maize)", "Pulses", "Mustard"},
		Reason:        "Moderately vulnerable soil suits crops with dense root systems and short bare-soil periods.",
	},
	msvi.RiskHigh: {
		SuitableCrops: []string{"Millets", "Sorghum", "Pulses", "Groundnut"},
		Reason:        "Deep-rooted, low-input crops hold vulnerable soil and tolerate erratic moisture.",
	},
	msvi.RiskCritical: {
		SuitableCrops: []string{"Vetiver Grass", "Legume Cover Crops", "Agroforestry"},
		Reason:        "Rebuild soil before planting cash crops: permanent cover stops erosion and restores organic matter.",
	},
}

// SuitabilityFor returns the crop suitability for a farm, or nil when the farm
// is planted or the plantation question was not answered.
func SuitabilityFor(hasPlantation *bool, level msvi.RiskLevel) *Suitability {
	if hasPlantation == nil || *hasPlantation {
		return nil
	}
	s, ok := suitabilityByRisk[level]
	if !ok {
		return nil
	}
	s.RiskLevel = level
	s.SuitableCrops = append([]string(nil), s.SuitableCrops...)
	return &s
}
