package advisory

import (
	"strings"

	"github.com/i474232898/agroplastiguard/internal/common"
)

type stage struct {
	until int // exclusive upper bound in days; 0 marks the final stage
	name  string
	care  []string
	next  string
}

// cropTable lists growth stages in order. aliases are matched case-insensitively
// as substrings of the farmer's crop name.
type cropTable struct {
	name    string
	aliases []string
	stages  []stage
}

func (c cropTable) stageAt(days int) stage {
	for _, s := range c.stages {
		if s.until == 0 || days < s.until {
			return s
		}
	}
	return c.stages[len(c.stages)-1]
}

var cropTables = []cropTable{
	{
		name:    "Rice",
		aliases: []string{"rice", "paddy"},
		stages: []stage{
			{21, "Seedling", []string{"Keep 2-3 inch water level", "Apply first nitrogen dose (1/3 of total)", "Watch for leaf folder pests"}, "Tillering stage starts around day 21"},
			{45, "Tillering", []string{"Maintain 5cm water depth", "Apply second nitrogen dose", "Remove weeds manually"}, "Panicle initiation at day 45-50"},
			{90, "Reproductive", []string{"Keep field continuously flooded", "Apply final fertilizer dose", "Monitor for brown plant hopper"}, "Harvest preparation after 90-100 days"},
			{0, "Maturity", []string{"Drain field 7-10 days before harvest", "Monitor grain moisture (20-24% for harvest)", "Prepare harvesting equipment"}, "Ready for harvest!"},
		},
	},
	{
		name:    "Wheat",
		aliases: []string{"wheat"},
		stages: []stage{
			{25, "Crown Root Initiation", []string{"Light irrigation if dry", "No nitrogen yet, roots developing", "Protect from birds"}, "Tillering begins day 25"},
			{60, "Tillering/Jointing", []string{"First irrigation at 21 days", "Apply 1/2 nitrogen dose", "Control broad-leaf weeds"}, "Flowering stage at 60-70 days"},
			{100, "Heading/Flowering", []string{"Critical irrigation period - do not miss", "Apply remaining nitrogen", "Watch for rust disease"}, "Grain filling phase"},
			{0, "Maturity", []string{"Stop irrigation 10 days before harvest", "Watch for lodging in wind", "Harvest at 20% grain moisture"}, "Harvest time!"},
		},
	},
	{
		name:    "Corn",
		aliases: []string{"corn", "maize"},
		stages: []stage{
			{20, "Emergence/V3", []string{"Ensure good soil moisture", "Side-dress nitrogen if yellowing", "Control cutworms"}, "Rapid growth phase ahead"},
			{50, "Vegetative Growth", []string{"Deep irrigation weekly", "Apply main nitrogen dose", "Monitor for corn borer"}, "Tasseling at 50-60 days"},
			{80, "Tasseling/Silking", []string{"CRITICAL: Do not miss irrigation", "Ensure good pollination (morning dew helps)", "Watch for silk feeders"}, "Ear filling begins"},
			{0, "Grain Fill/Maturity", []string{"Reduce irrigation gradually", "Monitor grain moisture (25% = harvest ready)", "Prevent lodging"}, "Harvest approaching!"},
		},
	},
	{
		name:    "Cotton",
		aliases: []string{"cotton"},
		stages: []stage{
			{30, "Seedling", []string{"Thin to one healthy plant per hill", "Light irrigation to establish roots", "Watch for aphids and jassids"}, "Square formation around day 30"},
			{60, "Squaring", []string{"Apply first nitrogen top-dress", "Keep field weed-free", "Scout for early bollworm"}, "Flowering begins at 60-70 days"},
			{110, "Flowering & Boll Development", []string{"Do not let the field dry out", "Apply potash for boll weight", "Monitor pink bollworm traps weekly"}, "Bolls start opening after day 110"},
			{0, "Boll Opening", []string{"Stop irrigation once 50% bolls open", "Pick clean cotton in dry weather", "Avoid contamination with plastic sacks"}, "Picking season!"},
		},
	},
}

// lookupCrop resolves a farmer-entered crop name, e.g. "Corn (Maize)".
func lookupCrop(name string) (cropTable, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return cropTable{}, false
	}
	for _, c := range cropTables {
		if common.HasAny(name, c.aliases...) {
			return c, true
		}
	}
	return cropTable{}, false
}

var genericCare = []string{
	"Inspect leaves and stems for pests twice a week",
	"Keep irrigation consistent with soil moisture",
	"Record growth observations to track the crop stage",
}
