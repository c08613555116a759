package geo

import (
	"context"
	"log/slog"
	"time"

	"github.com/kelvins/geocoder"
)

const defaultTimeout = 5 * time.Second

// Recorder receives reverse geocoding outcomes.
type Recorder interface {
	ObserveGeocode(outcome string)
}

type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

// Namer resolves coordinates to a human-readable place name with the Google
// Geocoding API. Failures degrade to an empty name.
type Namer struct {
	enabled  bool
	timeout  time.Duration
	reverse  reverseFunc
	logger   *slog.Logger
	recorder Recorder
}

// NewNamer creates a Namer. An empty apiKey disables lookups.
func NewNamer(apiKey string, timeout time.Duration, logger *slog.Logger, recorder Recorder) *Namer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey != "" {
		// The library reads its key from a package variable.
		geocoder.ApiKey = apiKey
	}
	return &Namer{
		enabled:  apiKey != "",
		timeout:  timeout,
		reverse:  geocoder.GeocodingReverse,
		logger:   logger,
		recorder: recorder,
	}
}

func (n *Namer) Enabled() bool {
	return n != nil && n.enabled
}

type lookupResult struct {
	addresses []geocoder.Address
	err       error
}

// Name returns the formatted address nearest to lat/lng, or "" when disabled,
// not found, timed out, or failed.
func (n *Namer) Name(ctx context.Context, lat, lng float64) string {
	if !n.Enabled() {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// The library has no context support, so the call runs detached and is
	// abandoned on timeout.
	done := make(chan lookupResult, 1)
	go func() {
		addrs, err := n.reverse(geocoder.Location{Latitude: lat, Longitude: lng})
		done <- lookupResult{addresses: addrs, err: err}
	}()

	select {
	case <-ctx.Done():
		n.logger.Warn("reverse geocode timed out", "lat", lat, "lng", lng, "error", ctx.Err())
		n.observe("error")
		return ""
	case res := <-done:
		if res.err != nil {
			n.logger.Warn("reverse geocode failed", "lat", lat, "lng", lng, "error", res.err)
			n.observe("error")
			return ""
		}
		for _, a := range res.addresses {
			if a.FormattedAddress != "" {
				n.observe("success")
				return a.FormattedAddress
			}
		}
		n.observe("empty")
		return ""
	}
}

func (n *Namer) observe(outcome string) {
	if n.recorder != nil {
		n.recorder.ObserveGeocode(outcome)
	}
}
