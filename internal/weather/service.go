package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultFetchTimeout bounds a single remote forecast call.
const DefaultFetchTimeout = 10 * time.Second

// ForecastResult is the outcome of GetForecast. Source names the provider that
// produced the forecast, or SimulatedSource when the fallback path was taken,
// in which case FallbackReason holds the remote failure (nil when no remote
// provider is configured at all).
type ForecastResult struct {
	Forecast       Forecast
	Source         string
	FallbackReason error
}

// Fallback reports whether the forecast came from the local generator.
func (r ForecastResult) Fallback() bool {
	return r.Source == SimulatedSource
}

// Recorder receives per-call outcomes. observability.Metrics satisfies it.
type Recorder interface {
	ObserveForecast(provider, outcome string)
}

// Service fetches forecasts from a remote provider and falls back to the simulator.
type Service struct {
	remote    Provider
	simulator *Simulator
	timeout   time.Duration
	logger    *slog.Logger
	recorder  Recorder
}

// NewService creates a Service. remote may be nil, in which case every
// forecast is simulated.
func NewService(remote Provider, simulator *Simulator, timeout time.Duration, logger *slog.Logger, recorder Recorder) *Service {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		remote:    remote,
		simulator: simulator,
		timeout:   timeout,
		logger:    logger,
		recorder:  recorder,
	}
}

// RemoteName returns the configured remote provider name, or SimulatedSource.
func (s *Service) RemoteName() string {
	if s.remote == nil {
		return SimulatedSource
	}
	return s.remote.Name()
}

// RemoteConfigured reports whether a remote provider is set and has its credentials.
func (s *Service) RemoteConfigured() bool {
	return IsConfigured(s.remote)
}

// FetchRemote calls the remote provider only, without fallback. The proxy
// endpoint uses it to report upstream failures to its caller.
func (s *Service) FetchRemote(ctx context.Context, coord Coordinate) (Forecast, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("%w: no remote provider", ErrNotConfigured)
	}
	if !IsConfigured(s.remote) {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, s.remote.Name())
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	forecast, err := s.remote.FetchForecast(callCtx, coord)
	if err != nil {
		s.observe(s.remote.Name(), outcomeOf(err))
		return nil, err
	}
	valid, err := NewForecast(forecast)
	if err != nil {
		s.observe(s.remote.Name(), "malformed")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	s.observe(s.remote.Name(), "success")
	return valid, nil
}

// GetForecast returns a 7-day forecast for coord. Remote failures of any kind
// are logged and answered from the simulator. The only error returned is the
// caller's own context cancellation.
func (s *Service) GetForecast(ctx context.Context, coord Coordinate) (ForecastResult, error) {
	if s.remote == nil {
		return s.simulate(coord, nil), nil
	}

	forecast, err := s.FetchRemote(ctx, coord)
	if err == nil {
		return ForecastResult{Forecast: forecast, Source: s.remote.Name()}, nil
	}

	if ctx.Err() != nil {
		return ForecastResult{}, ctx.Err()
	}

	s.logger.Warn("remote forecast failed, using simulation",
		"provider", s.remote.Name(),
		"coord", coord.Key(),
		"error", err,
	)
	return s.simulate(coord, err), nil
}

func (s *Service) simulate(coord Coordinate, reason error) ForecastResult {
	s.observe(SimulatedSource, "success")
	s.logger.Info("forecast simulated", "coord", coord.Key())
	return ForecastResult{
		Forecast:       s.simulator.Generate(coord),
		Source:         SimulatedSource,
		FallbackReason: reason,
	}
}

func (s *Service) observe(provider, outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveForecast(provider, outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
