package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agroplastiguard"

// Metrics holds the Prometheus collectors for the advisory service.
type Metrics struct {
	ForecastRequests  *prometheus.CounterVec // labels: provider, outcome={success,transport,timeout,malformed,not_configured}
	ForecastFallbacks prometheus.Counter

	Analyses         *prometheus.CounterVec // labels: risk_level
	Recommendations  *prometheus.CounterVec // labels: type
	AnalysisDuration prometheus.Histogram

	ActiveSessions  prometheus.Gauge
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocoderEnabled prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ForecastRequests,
		m.ForecastFallbacks,
		m.Analyses,
		m.Recommendations,
		m.AnalysisDuration,
		m.ActiveSessions,
		m.GeocodeRequests,
		m.GeocoderEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_requests_total",
			Help:      "Forecast requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ForecastFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_fallbacks_total",
			Help:      "Analyses whose forecast came from the local simulator after a remote failure.",
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by M-SVI risk level.",
		}, []string{"risk_level"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Generated recommendations by type.",
		}, []string{"type"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete analysis run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Analysis sessions currently held in memory.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding lookups by outcome.",
		}, []string{"outcome"}),
		GeocoderEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocoder_enabled",
			Help:      "1 when location naming is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) ObserveForecast(provider, outcome string) {
	m.ForecastRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveFallback() {
	m.ForecastFallbacks.Inc()
}

func (m *Metrics) ObserveAnalysis(riskLevel string, recommendationTypes []string, seconds float64) {
	m.Analyses.WithLabelValues(riskLevel).Inc()
	for _, t := range recommendationTypes {
		m.Recommendations.WithLabelValues(t).Inc()
	}
	m.AnalysisDuration.Observe(seconds)
}

func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) ObserveGeocode(outcome string) {
	m.GeocodeRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetGeocoderEnabled(enabled bool) {
	if enabled {
		m.GeocoderEnabled.Set(1)
		return
	}
	m.GeocoderEnabled.Set(0)
}
