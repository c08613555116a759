package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/i474232898/agroplastiguard/internal/weather"
)

// Meteomatics parameter names requested for the daily window.
const (
	mmTempMax  = "t_max_2m_7d:C"
	mmPrecip   = "precip_24h:mm"
	mmWind     = "wind_speed_10m:kmh"
	mmHumidity = "humidity_2m:p"
	mmSymbol   = "weather_symbol_7d:idx"
)

var meteomaticsParams = strings.Join([]string{mmTempMax, mmPrecip, mmWind, mmHumidity, mmSymbol}, ",")

// MeteomaticsProvider implements weather.Provider for the Meteomatics API.
type MeteomaticsProvider struct {
	name     string
	username string
	password string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	clock    clockwork.Clock
}

func NewMeteomaticsProvider(client *http.Client, username, password string, clock clockwork.Clock) *MeteomaticsProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MeteomaticsProvider{
		name:     "meteomatics",
		username: username,
		password: password,
		baseURL:  "https://api.meteomatics.com",
		client:   client,
		circuit:  newBreaker("meteomatics"),
		clock:    clock,
	}
}

func (p *MeteomaticsProvider) Name() string {
	return p.name
}

// Configured reports whether both credentials are set.
func (p *MeteomaticsProvider) Configured() bool {
	return p.username != "" && p.password != ""
}

func (p *MeteomaticsProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("%w: meteomatics credentials are not set", weather.ErrNotConfigured)
	}

	start := p.clock.Now().UTC().Truncate(time.Second)
	end := start.AddDate(0, 0, weather.ForecastDays)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s/%s--%s:P1D/%s/%f,%f/json",
			p.baseURL,
			start.Format(time.RFC3339),
			end.Format(time.RFC3339),
			meteomaticsParams,
			coord.Lat, coord.Lng,
		)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(p.username, p.password)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload meteomaticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode meteomatics response: %v", weather.ErrMalformedResponse, err)
	}

	return parseMeteomatics(payload)
}

// parseMeteomatics turns parameter series into forecast days. The
// precipitation series defines the dates; every other series is read at the
// same index, defaulting to 0 when absent.
func parseMeteomatics(payload meteomaticsResponse) (weather.Forecast, error) {
	precip, ok := payload.series("precip_24h")
	if !ok || len(precip) == 0 {
		return nil, fmt.Errorf("%w: precipitation series missing", weather.ErrMalformedResponse)
	}
	if len(precip) < weather.ForecastDays {
		return nil, fmt.Errorf("%w: %d precipitation dates, need %d", weather.ErrMalformedResponse, len(precip), weather.ForecastDays)
	}

	temp, _ := payload.series("t_max_2m_7d")
	wind, _ := payload.series("wind_speed_10m")
	humidity, _ := payload.series("humidity_2m")

	days := make([]weather.ForecastDay, 0, weather.ForecastDays)
	for i := 0; i < weather.ForecastDays; i++ {
		date, err := time.Parse(time.RFC3339, precip[i].Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q: %v", weather.ErrMalformedResponse, precip[i].Date, err)
		}
		days = append(days, weather.NewDay(
			date,
			valueAt(temp, i),
			precip[i].Value,
			valueAt(wind, i),
			valueAt(humidity, i),
		))
	}

	return weather.NewForecast(days)
}

type meteomaticsResponse struct {
	Status string `json:"status"`
	Data   []struct {
		Parameter   string `json:"parameter"`
		Coordinates []struct {
			Lat   float64           `json:"lat"`
			Lon   float64           `json:"lon"`
			Dates []meteomaticsDate `json:"dates"`
		} `json:"coordinates"`
	} `json:"data"`
}

type meteomaticsDate struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// series finds the first parameter whose name starts with prefix and returns
// the dates of its first coordinate.
func (r meteomaticsResponse) series(prefix string) ([]meteomaticsDate, bool) {
	for _, d := range r.Data {
		if !strings.HasPrefix(d.Parameter, prefix) {
			continue
		}
		if len(d.Coordinates) == 0 {
			return nil, false
		}
		return d.Coordinates[0].Dates, true
	}
	return nil, false
}

func valueAt(dates []meteomaticsDate, i int) float64 {
	if i >= len(dates) {
		return 0
	}
	return dates[i].Value
}
