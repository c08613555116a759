package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/agroplastiguard/internal/analysis"
	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/store"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Messages of the weather proxy contract. Front-ends match on them.
const (
	msgNotConfigured = "Server Configuration Error: weather provider credentials are not set."
	msgMissingCoords = "Latitude (lat) and Longitude (lng) parameters are required."
	msgUpstream      = "Failed to retrieve weather data securely."
)

// ForecastFetcher is satisfied by *weather.Service.
type ForecastFetcher interface {
	RemoteConfigured() bool
	FetchRemote(ctx context.Context, coord weather.Coordinate) (weather.Forecast, error)
}

// Analyses is satisfied by *analysis.Analyzer.
type Analyses interface {
	Run(ctx context.Context, profile farm.Profile) (analysis.Session, error)
	Get(id string) (analysis.Session, error)
	Discard(id string) error
}

// ErrorHandler renders errors as {error: true, message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, forecasts ForecastFetcher, analyses Analyses) {
	v1 := app.Group("/api/v1")

	// Weather proxy. Errors use the {error, detail} body of the proxy
	// contract rather than the app-wide error handler.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		if !forecasts.RemoteConfigured() {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgNotConfigured})
		}

		q, err := parseCoordinateQuery(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgMissingCoords, "detail": err.Error()})
		}

		forecast, err := forecasts.FetchRemote(c.UserContext(), q.coordinate())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  msgUpstream,
				"detail": err.Error(),
			})
		}

		return c.JSON(newWeatherResponse(forecast))
	})

	v1.Post("/analyses", func(c *fiber.Ctx) error {
		var profile farm.Profile
		if err := c.BodyParser(&profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(profile); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		session, err := analyses.Run(c.UserContext(), profile)
		if err != nil {
			switch {
			case errors.Is(err, analysis.ErrInvalidProfile):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return fiber.NewError(fiber.StatusServiceUnavailable, "analysis cancelled")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "analysis failed")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(session)
	})

	v1.Get("/analyses/:id", func(c *fiber.Ctx) error {
		session, err := lookupSession(c, analyses)
		if err != nil {
			return err
		}
		return c.JSON(session)
	})

	v1.Get("/analyses/:id/report", func(c *fiber.Ctx) error {
		session, err := lookupSession(c, analyses)
		if err != nil {
			return err
		}
		return c.JSON(session.Summary)
	})

	// Restart: drop the session and everything derived from it.
	v1.Delete("/analyses/:id", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		if err := analyses.Discard(id); err != nil {
			return sessionError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func sessionID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := validate.Var(id, "required,uuid"); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func lookupSession(c *fiber.Ctx, analyses Analyses) (analysis.Session, error) {
	id, err := sessionID(c)
	if err != nil {
		return analysis.Session{}, err
	}
	session, err := analyses.Get(id)
	if err != nil {
		return analysis.Session{}, sessionError(err)
	}
	return session, nil
}

func sessionError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "analysis session not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load analysis session")
}

// coordinateQuery holds the lat/lng query parameters of the proxy endpoint.
type coordinateQuery struct {
	Lat *float64 `validate:"required,gte=-90,lte=90"`
	Lng *float64 `validate:"required,gte=-180,lte=180"`
}

func (q coordinateQuery) coordinate() weather.Coordinate {
	return weather.Coordinate{Lat: *q.Lat, Lng: *q.Lng}
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	for _, p := range []struct {
		name string
		dst  **float64
	}{{"lat", &q.Lat}, {"lng", &q.Lng}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, errors.New(p.name + " must be a decimal number")
		}
		*p.dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// weatherResponse is the body of a successful proxy call.
type weatherResponse struct {
	Current       weather.ForecastDay `json:"current"`
	Forecast      weather.Forecast    `json:"forecast"`
	TotalRainfall string              `json:"totalRainfall"`
}

func newWeatherResponse(f weather.Forecast) weatherResponse {
	today, _ := f.Today()
	return weatherResponse{
		Current:       today,
		Forecast:      f,
		TotalRainfall: weather.FormatMM(weather.AggregateRainfall(f).Total),
	}
}
