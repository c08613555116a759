package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/i474232898/agroplastiguard/internal/weather"
)

// ProxyProvider consumes the weather proxy contract served at /api/v1/weather,
// either by another instance of this service or by the legacy serverless function.
type ProxyProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	clock   clockwork.Clock
}

func NewProxyProvider(client *http.Client, baseURL string, clock clockwork.Clock) *ProxyProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ProxyProvider{
		name:    "proxy",
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("proxy"),
		clock:   clock,
	}
}

func (p *ProxyProvider) Name() string {
	return p.name
}

// Configured reports whether the proxy URL is set.
func (p *ProxyProvider) Configured() bool {
	return p.baseURL != ""
}

func (p *ProxyProvider) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("%w: proxy url is not set", weather.ErrNotConfigured)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
		values.Set("lng", strconv.FormatFloat(coord.Lng, 'f', -1, 64))
		return http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast []proxyDay `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode proxy response: %v", weather.ErrMalformedResponse, err)
	}
	if len(payload.Forecast) < weather.ForecastDays {
		return nil, fmt.Errorf("%w: %d days returned, need %d", weather.ErrMalformedResponse, len(payload.Forecast), weather.ForecastDays)
	}

	today := weather.StartOfDay(p.clock.Now())
	days := make([]weather.ForecastDay, 0, weather.ForecastDays)
	for i, d := range payload.Forecast[:weather.ForecastDays] {
		day := d.Day
		if day.IsZero() {
			// The legacy function only sends display labels.
			day = today.AddDate(0, 0, i)
		}
		days = append(days, weather.NewDay(day, float64(d.Temp), float64(d.Rainfall), float64(d.WindSpeed), float64(d.Humidity)))
	}

	return weather.NewForecast(days)
}

type proxyDay struct {
	Day       time.Time `json:"day"`
	Temp      flexFloat `json:"temp"`
	Rainfall  flexFloat `json:"rainfall"`
	WindSpeed flexFloat `json:"windSpeed"`
	Humidity  flexFloat `json:"humidity"`
}

// flexFloat accepts both JSON numbers and numeric strings such as "12.3".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
