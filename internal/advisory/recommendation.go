package advisory

// Type classifies a recommendation. The UI colours cards by type.
type Type string

const (
	TypeUrgent   Type = "urgent"
	TypeCritical Type = "critical"
	TypeCaution  Type = "caution"
	TypeWarning  Type = "warning"
	TypeOptimal  Type = "optimal"
	TypeGood     Type = "good"
	TypeCrop     Type = "crop"
	TypePlanning Type = "planning"
	TypeInfo     Type = "info"
)

// HighPriority reports whether the type demands same-day action.
func (t Type) HighPriority() bool {
	return t == TypeUrgent || t == TypeCritical
}

// Recommendation is one advisory card. Optional fields are omitted from JSON
// when unset.
type Recommendation struct {
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`

	Example   string `json:"example,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Cost      string `json:"cost,omitempty"`
	Impact    string `json:"impact,omitempty"`
	NextStage string `json:"nextStage,omitempty"`
	Stage     string `json:"stage,omitempty"`

	AffectedAcres float64 `json:"affectedAcres,omitempty"`
	VetiverSlips  int     `json:"vetiverSlips,omitempty"`
	MulchTons     float64 `json:"mulchTons,omitempty"`
	CostINR       float64 `json:"costINR,omitempty"`
}

// CountHighPriority counts urgent and critical recommendations.
func CountHighPriority(recs []Recommendation) int {
	n := 0
	for _, r := range recs {
		if r.Type.HighPriority() {
			n++
		}
	}
	return n
}
