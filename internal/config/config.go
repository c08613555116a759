package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Weather provider names accepted by WEATHER_PROVIDER.
const (
	ProviderMeteomatics = "meteomatics"
	ProviderOpenMeteo   = "openmeteo"
	ProviderProxy       = "proxy"
	ProviderSimulated   = "simulated"
)

type AppConfig struct {
	Port      string
	LogLevel  string
	LogFormat string

	WeatherProvider     string
	MeteomaticsUsername string
	MeteomaticsPassword string
	WeatherProxyURL     string
	HTTPTimeout         time.Duration

	// GeocoderAPIKey enables reverse geocoding of unnamed locations.
	GeocoderAPIKey string

	// In-memory session retention.
	SessionMaxCount      int           // 0 = unlimited
	SessionMaxAge        time.Duration // 0 = unlimited
	SessionSweepInterval time.Duration

	// Advisory thresholds in millimetres.
	HeavyRainMM      float64
	LightRainMM      float64
	TomorrowRainMM   float64
	OmitCalmTomorrow bool

	// RandomSeed seeds the simulator and scorer; 0 picks a seed from the clock.
	RandomSeed uint64

	ShutdownTimeout    time.Duration
	CORSAllowedOrigins string
}

// Load reads configuration from environment with sensible defaults. A .env
// file in the working directory is loaded first when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &AppConfig{
		Port:      getenvDefault("PORT", "8080"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "json"),

		WeatherProvider:     strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderMeteomatics)),
		MeteomaticsUsername: os.Getenv("METEOMATICS_USERNAME"),
		MeteomaticsPassword: os.Getenv("METEOMATICS_PASSWORD"),
		WeatherProxyURL:     os.Getenv("WEATHER_PROXY_URL"),
		GeocoderAPIKey:      os.Getenv("GEOCODER_API_KEY"),
		CORSAllowedOrigins:  getenvDefault("CORS_ALLOWED_ORIGINS", "*"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s", false); err != nil {
		return nil, err
	}
	if cfg.SessionMaxCount, err = getenvInt("SESSION_MAX_COUNT", 1000); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getenvDuration("SESSION_MAX_AGE", "24h", true); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "15m", false); err != nil {
		return nil, err
	}
	if cfg.HeavyRainMM, err = getenvFloat("ADVISORY_HEAVY_RAIN_MM", 20); err != nil {
		return nil, err
	}
	if cfg.LightRainMM, err = getenvFloat("ADVISORY_LIGHT_RAIN_MM", 0); err != nil {
		return nil, err
	}
	if cfg.TomorrowRainMM, err = getenvFloat("ADVISORY_TOMORROW_RAIN_MM", 10); err != nil {
		return nil, err
	}
	if cfg.OmitCalmTomorrow, err = getenvBool("ADVISORY_OMIT_CALM_TOMORROW", false); err != nil {
		return nil, err
	}
	if cfg.RandomSeed, err = getenvUint("RANDOM_SEED", 0); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.WeatherProvider {
	case ProviderMeteomatics, ProviderOpenMeteo, ProviderSimulated:
	case ProviderProxy:
		if c.WeatherProxyURL == "" {
			return fmt.Errorf("WEATHER_PROXY_URL is required when WEATHER_PROVIDER=%s", ProviderProxy)
		}
	default:
		return fmt.Errorf("invalid WEATHER_PROVIDER %q: want one of %s, %s, %s, %s",
			c.WeatherProvider, ProviderMeteomatics, ProviderOpenMeteo, ProviderProxy, ProviderSimulated)
	}

	if c.SessionMaxCount < 0 {
		return fmt.Errorf("invalid SESSION_MAX_COUNT: must not be negative")
	}
	if c.HeavyRainMM < c.LightRainMM {
		return fmt.Errorf("invalid ADVISORY_HEAVY_RAIN_MM: must not be below ADVISORY_LIGHT_RAIN_MM")
	}
	if c.LightRainMM < 0 || c.TomorrowRainMM < 0 {
		return fmt.Errorf("advisory rain thresholds must not be negative")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvUint(key string, def uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// getenvDuration parses a duration. allowZero permits "0" to disable a limit;
// negative values are always rejected.
func getenvDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
