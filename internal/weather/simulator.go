package weather

import (
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/agroplastiguard/internal/common"
)

// SimulatedSource is the Source reported for forecasts produced locally.
const SimulatedSource = "simulated"

// Simulator generates a synthetic 7-day forecast with a fixed weekly shape:
// a possible shower today, a heavy-rain front on days 3 and 4, and a
// possible residual shower on day 5.
type Simulator struct {
	rng   common.Rand
	clock clockwork.Clock
}

// NewSimulator creates a Simulator. A nil clock uses real time.
func NewSimulator(rng common.Rand, clock clockwork.Clock) *Simulator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Simulator{rng: rng, clock: clock}
}

// Generate returns a valid Forecast. It never fails.
func (s *Simulator) Generate(_ Coordinate) Forecast {
	today := StartOfDay(s.clock.Now())
	days := make(Forecast, 0, ForecastDays)

	for i := 0; i < ForecastDays; i++ {
		temp := common.Uniform(s.rng, 28, 36)
		humidity := common.Uniform(s.rng, 60, 90)
		wind := common.Uniform(s.rng, 5, 15)

		var rain float64
		switch i {
		case 0:
			if common.Chance(s.rng, 0.2) {
				rain = common.Uniform(s.rng, 1, 5)
			}
		case 3, 4:
			rain = common.Uniform(s.rng, 20.1, 50)
			temp -= 4
		case 5:
			if common.Chance(s.rng, 0.5) {
				rain = common.Uniform(s.rng, 1, 8)
			}
		}

		days = append(days, NewDay(today.AddDate(0, 0, i), temp, rain, wind, humidity))
	}

	return days
}
