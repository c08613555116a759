package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/analysis"
	"github.com/i474232898/agroplastiguard/internal/common"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/report"
	"github.com/i474232898/agroplastiguard/internal/store"
	"github.com/i474232898/agroplastiguard/internal/weather"
	"github.com/i474232898/agroplastiguard/internal/weather/providers"
)

var testNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

type fakeFetcher struct {
	configured bool
	forecast   weather.Forecast
	err        error
	lastCoord  weather.Coordinate
}

func (f *fakeFetcher) RemoteConfigured() bool { return f.configured }

func (f *fakeFetcher) FetchRemote(_ context.Context, coord weather.Coordinate) (weather.Forecast, error) {
	f.lastCoord = coord
	return f.forecast, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func simulatedForecast() weather.Forecast {
	return weather.NewSimulator(common.NewLockedRand(3), clockwork.NewFakeClockAt(testNow)).Generate(weather.Coordinate{})
}

func newAnalyzer() *analysis.Analyzer {
	clock := clockwork.NewFakeClockAt(testNow)
	rng := common.NewLockedRand(5)
	return analysis.NewAnalyzer(analysis.Deps{
		Forecasts: weather.NewService(nil, weather.NewSimulator(rng, clock), 0, quietLogger(), nil),
		Scorer:    msvi.NewScorer(rng),
		Engine:    advisory.NewEngine(advisory.DefaultRules()),
		Store:     store.NewMemoryStore[analysis.Session](10, time.Hour, clock),
		Clock:     clock,
		Logger:    quietLogger(),
	})
}

func newTestApp(fetcher ForecastFetcher) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, fetcher, newAnalyzer())
	return app
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// --- weather proxy ---

func TestWeather_NotConfiguredCheckedFirst(t *testing.T) {
	app := newTestApp(&fakeFetcher{configured: false})

	// Missing coordinates would be a 400, but credentials are checked first.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, msgNotConfigured, body["error"])
}

func TestWeather_BadCoordinates(t *testing.T) {
	app := newTestApp(&fakeFetcher{configured: true})

	for _, q := range []string{"", "?lat=18.5", "?lng=73.8", "?lat=abc&lng=73.8", "?lat=91&lng=73.8", "?lat=18.5&lng=-181"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)

		var body map[string]any
		decode(t, resp, &body)
		assert.Equal(t, msgMissingCoords, body["error"], q)
	}
}

func TestWeather_Success(t *testing.T) {
	f := simulatedForecast()
	fetcher := &fakeFetcher{configured: true, forecast: f}
	app := newTestApp(fetcher)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=18.52&lng=73.85", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body weatherResponse
	decode(t, resp, &body)

	assert.Equal(t, weather.Coordinate{Lat: 18.52, Lng: 73.85}, fetcher.lastCoord)
	assert.Len(t, body.Forecast, weather.ForecastDays)
	assert.Equal(t, f[0].Date, body.Current.Date)
	assert.Equal(t, weather.FormatMM(weather.AggregateRainfall(f).Total), body.TotalRainfall)
}

func TestWeather_UpstreamFailure(t *testing.T) {
	app := newTestApp(&fakeFetcher{configured: true, err: fmt.Errorf("%w: 503", weather.ErrTransport)})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather?lat=1&lng=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, msgUpstream, body["error"])
	assert.Contains(t, body["detail"], "503")
}

// The proxy provider must be able to consume this endpoint.
func TestWeather_ProxyRoundTrip(t *testing.T) {
	f := simulatedForecast()
	upstream := newTestApp(&fakeFetcher{configured: true, forecast: f})

	srv := httptest.NewServer(adaptor.FiberApp(upstream))
	defer srv.Close()

	p := providers.NewProxyProvider(&http.Client{Timeout: 2 * time.Second}, srv.URL+"/api/v1/weather", clockwork.NewFakeClockAt(testNow))
	got, err := p.FetchForecast(context.Background(), weather.Coordinate{Lat: 18.52, Lng: 73.85})
	require.NoError(t, err)

	require.Len(t, got, weather.ForecastDays)
	for i := range f {
		assert.True(t, f[i].Day.Equal(got[i].Day))
		assert.Equal(t, f[i].Rainfall, got[i].Rainfall)
		assert.Equal(t, f[i].Condition, got[i].Condition)
	}
}

// --- analyses ---

func postAnalysis(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAnalyses_Lifecycle(t *testing.T) {
	app := newTestApp(&fakeFetcher{})

	resp := postAnalysis(t, app, `{"acres":5,"location":{"lat":18.52,"lng":73.85,"name":"Pune"},"hasPlantation":true,"cropType":"Rice","daysPlanted":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session analysis.Session
	decode(t, resp, &session)
	require.NotEmpty(t, session.ID)
	assert.Equal(t, weather.SimulatedSource, session.ForecastSource)
	assert.Len(t, session.Forecast, weather.ForecastDays)
	assert.NotEmpty(t, session.Recommendations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+session.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+session.ID+"/report", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary report.Summary
	decode(t, resp, &summary)
	assert.Equal(t, len(session.Recommendations), summary.RecommendationCount)
	assert.Equal(t, "Rice", summary.CropType)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+session.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+session.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, true, body["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+session.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyses_InvalidInput(t *testing.T) {
	app := newTestApp(&fakeFetcher{})

	bodies := []string{
		`not json`,
		`{"acres":0,"location":{"lat":1,"lng":2}}`,
		`{"acres":-3,"location":{"lat":1,"lng":2}}`,
		`{"acres":2,"location":{"lat":120,"lng":2}}`,
		`{"acres":2,"location":{"lat":1,"lng":2},"daysPlanted":-4}`,
		`{"acres":5,"hasPlantation":true,"cropType":"Rice","daysPlanted":10}`,
		`{"acres":5,"location":{}}`,
	}
	for _, b := range bodies {
		resp := postAnalysis(t, app, b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, b)
		resp.Body.Close()
	}
}

func TestAnalyses_BareFarmGetsSuitability(t *testing.T) {
	app := newTestApp(&fakeFetcher{})

	resp := postAnalysis(t, app, `{"acres":2,"location":{"lat":18.52,"lng":73.85},"hasPlantation":false}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session analysis.Session
	decode(t, resp, &session)
	require.NotNil(t, session.Summary.Suitability)
	assert.NotEmpty(t, session.Summary.Suitability.SuitableCrops)
}

func TestAnalyses_InvalidID(t *testing.T) {
	app := newTestApp(&fakeFetcher{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
