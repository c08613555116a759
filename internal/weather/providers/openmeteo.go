package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/agroplastiguard/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(coord.Lng, 'f', 4, 64))
		values.Set("daily", "temperature_2m_max,precipitation_sum,wind_speed_10m_max,relative_humidity_2m_mean")
		values.Set("forecast_days", strconv.Itoa(weather.ForecastDays))
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			TempMax     []float64 `json:"temperature_2m_max"`
			Precip      []float64 `json:"precipitation_sum"`
			WindMax     []float64 `json:"wind_speed_10m_max"`
			HumidityAvg []float64 `json:"relative_humidity_2m_mean"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode openmeteo response: %v", weather.ErrMalformedResponse, err)
	}

	daily := payload.Daily
	if daily.Precip == nil {
		return nil, fmt.Errorf("%w: precipitation_sum missing", weather.ErrMalformedResponse)
	}
	if len(daily.Time) < weather.ForecastDays || len(daily.Precip) < weather.ForecastDays {
		return nil, fmt.Errorf("%w: %d days returned, need %d", weather.ErrMalformedResponse, len(daily.Time), weather.ForecastDays)
	}

	days := make([]weather.ForecastDay, 0, weather.ForecastDays)
	for i := 0; i < weather.ForecastDays; i++ {
		date, err := time.Parse("2006-01-02", daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q: %v", weather.ErrMalformedResponse, daily.Time[i], err)
		}
		days = append(days, weather.NewDay(
			date,
			floatAt(daily.TempMax, i),
			daily.Precip[i],
			floatAt(daily.WindMax, i),
			floatAt(daily.HumidityAvg, i),
		))
	}

	return weather.NewForecast(days)
}

func floatAt(values []float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}
