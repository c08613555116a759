package weather

import (
	"context"
	"errors"
)

var (
	// ErrTransport covers unreachable upstreams, non-2xx statuses and open circuit breakers.
	ErrTransport = errors.New("weather transport error")
	// ErrMalformedResponse is returned when the upstream payload lacks an expected parameter series.
	ErrMalformedResponse = errors.New("malformed weather response")
	// ErrNotConfigured is returned when a provider's credentials or endpoint are unset.
	ErrNotConfigured = errors.New("weather provider not configured")
	// ErrInvalidForecast is returned when a forecast breaks the 7-day ordering invariant.
	ErrInvalidForecast = errors.New("invalid forecast")
)

// Provider abstracts a remote 7-day forecast source (e.g. Meteomatics, Open-Meteo).
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, coord Coordinate) (Forecast, error)
}

// Configurable is implemented by providers that need credentials or an endpoint.
type Configurable interface {
	Configured() bool
}

// IsConfigured reports whether p has what it needs to make a request.
// Providers that do not implement Configurable are always configured.
func IsConfigured(p Provider) bool {
	if p == nil {
		return false
	}
	c, ok := p.(Configurable)
	return !ok || c.Configured()
}
