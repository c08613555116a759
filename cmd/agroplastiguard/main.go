package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/analysis"
	httpapi "github.com/i474232898/agroplastiguard/internal/api/http"
	"github.com/i474232898/agroplastiguard/internal/common"
	"github.com/i474232898/agroplastiguard/internal/config"
	"github.com/i474232898/agroplastiguard/internal/geo"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/observability"
	"github.com/i474232898/agroplastiguard/internal/scheduler"
	"github.com/i474232898/agroplastiguard/internal/store"
	"github.com/i474232898/agroplastiguard/internal/weather"
	"github.com/i474232898/agroplastiguard/internal/weather/providers"
)

const serviceName = "agroplastiguard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One goroutine-safe source feeds both the simulator and the scorer.
	rng := common.NewLockedRand(cfg.RandomSeed)

	remote := newRemoteProvider(cfg, httpClient, clock)
	if remote != nil && !weather.IsConfigured(remote) {
		log.Warn("weather provider is not configured; every forecast will be simulated", "provider", remote.Name())
	}
	forecasts := weather.NewService(remote, weather.NewSimulator(rng, clock), cfg.HTTPTimeout, log, metrics)

	namer := geo.NewNamer(cfg.GeocoderAPIKey, cfg.HTTPTimeout, log, metrics)
	metrics.SetGeocoderEnabled(namer.Enabled())
	if namer.Enabled() {
		log.Info("location naming enabled")
	} else {
		log.Info("location naming disabled")
	}

	rules := advisory.DefaultRules()
	rules.HeavyRainMM = cfg.HeavyRainMM
	rules.LightRainMM = cfg.LightRainMM
	rules.TomorrowRainMM = cfg.TomorrowRainMM
	rules.OmitCalmTomorrow = cfg.OmitCalmTomorrow

	sessions := store.NewMemoryStore[analysis.Session](cfg.SessionMaxCount, cfg.SessionMaxAge, clock)

	analyzer := analysis.NewAnalyzer(analysis.Deps{
		Forecasts: forecasts,
		Scorer:    msvi.NewScorer(rng),
		Engine:    advisory.NewEngine(rules),
		Store:     sessions,
		Namer:     namer,
		Recorder:  metrics,
		Clock:     clock,
		Logger:    log,
	})

	// Periodic sweep of expired sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval, log, metrics)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowedOrigins}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"service":         serviceName,
			"weatherProvider": forecasts.RemoteName(),
			"sessions":        sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, forecasts, analyzer)

	go func() {
		log.Info("http server listening", "addr", cfg.Addr(), "weather_provider", cfg.WeatherProvider)
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("shutdown complete")
}

// newRemoteProvider returns nil for the simulated provider. The explicit nil
// return keeps a typed nil pointer out of the weather.Provider interface.
func newRemoteProvider(cfg *config.AppConfig, client *http.Client, clock clockwork.Clock) weather.Provider {
	switch cfg.WeatherProvider {
	case config.ProviderMeteomatics:
		return providers.NewMeteomaticsProvider(client, cfg.MeteomaticsUsername, cfg.MeteomaticsPassword, clock)
	case config.ProviderOpenMeteo:
		return providers.NewOpenMeteoProvider(client)
	case config.ProviderProxy:
		return providers.NewProxyProvider(client, cfg.WeatherProxyURL, clock)
	default:
		return nil
	}
}
