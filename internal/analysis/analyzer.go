package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/agroplastiguard/internal/advisory"
	"github.com/i474232898/agroplastiguard/internal/farm"
	"github.com/i474232898/agroplastiguard/internal/msvi"
	"github.com/i474232898/agroplastiguard/internal/report"
	"github.com/i474232898/agroplastiguard/internal/weather"
)

// ErrInvalidProfile is returned for profiles the pipeline cannot score.
var ErrInvalidProfile = errors.New("invalid farm profile")

// ForecastSource is satisfied by *weather.Service.
type ForecastSource interface {
	GetForecast(ctx context.Context, coord weather.Coordinate) (weather.ForecastResult, error)
}

// Scorer is satisfied by *msvi.Scorer.
type Scorer interface {
	Compute(hasPlantation bool, acres float64) msvi.Score
}

// Namer is satisfied by *geo.Namer.
type Namer interface {
	Name(ctx context.Context, lat, lng float64) string
}

// Store is satisfied by *store.MemoryStore[Session].
type Store interface {
	Save(id string, s Session)
	Get(id string) (Session, error)
	Delete(id string) error
	Len() int
}

// Recorder is satisfied by *observability.Metrics.
type Recorder interface {
	ObserveFallback()
	ObserveAnalysis(riskLevel string, recommendationTypes []string, seconds float64)
	SetActiveSessions(n int)
}

// Deps are the collaborators of an Analyzer. Namer and Recorder are optional.
type Deps struct {
	Forecasts ForecastSource
	Scorer    Scorer
	Engine    *advisory.Engine
	Store     Store
	Namer     Namer
	Recorder  Recorder
	Clock     clockwork.Clock
	Logger    *slog.Logger
}

// Analyzer runs the advisory pipeline and keeps the resulting sessions.
type Analyzer struct {
	forecasts ForecastSource
	scorer    Scorer
	engine    *advisory.Engine
	store     Store
	namer     Namer
	recorder  Recorder
	clock     clockwork.Clock
	logger    *slog.Logger
}

func NewAnalyzer(d Deps) *Analyzer {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Engine == nil {
		d.Engine = advisory.NewEngine(advisory.DefaultRules())
	}
	return &Analyzer{
		forecasts: d.Forecasts,
		scorer:    d.Scorer,
		engine:    d.Engine,
		store:     d.Store,
		namer:     d.Namer,
		recorder:  d.Recorder,
		clock:     d.Clock,
		logger:    d.Logger,
	}
}

// Run analyses a farm. The forecast fetch, the score computation and the
// optional location lookup run concurrently; advisory and report run after
// all three finish. The only errors are an invalid profile and cancellation
// of ctx.
func (a *Analyzer) Run(ctx context.Context, profile farm.Profile) (Session, error) {
	if profile.Acres <= 0 {
		return Session{}, fmt.Errorf("%w: acres must be positive", ErrInvalidProfile)
	}
	if profile.Location.IsZero() {
		return Session{}, fmt.Errorf("%w: location is required", ErrInvalidProfile)
	}
	coord := profile.Location.Coordinate()
	if !coord.Valid() {
		return Session{}, fmt.Errorf("%w: coordinate %s out of range", ErrInvalidProfile, coord.Key())
	}

	start := a.clock.Now()

	var (
		result weather.ForecastResult
		score  msvi.Score
		name   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = a.forecasts.GetForecast(gctx, coord)
		return err
	})
	g.Go(func() error {
		score = a.scorer.Compute(profile.Planted(), profile.Acres)
		return nil
	})
	if profile.Location.Name == "" && a.namer != nil {
		g.Go(func() error {
			name = a.namer.Name(gctx, coord.Lat, coord.Lng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Session{}, fmt.Errorf("analysis cancelled: %w", err)
	}
	if name != "" {
		profile.Location.Name = name
	}

	recs := a.engine.Generate(result.Forecast, score, profile)
	now := a.clock.Now()

	session := Session{
		ID:              uuid.NewString(),
		Profile:         profile,
		Forecast:        result.Forecast,
		ForecastSource:  result.Source,
		Score:           score,
		Recommendations: recs,
		Summary: report.Assemble(report.Input{
			Profile:         profile,
			Forecast:        result.Forecast,
			ForecastSource:  result.Source,
			Score:           score,
			Recommendations: recs,
			GeneratedAt:     now,
		}),
		CreatedAt: now,
	}
	if result.FallbackReason != nil {
		session.FallbackReason = result.FallbackReason.Error()
	}

	a.store.Save(session.ID, session)
	a.observe(session, now.Sub(start).Seconds())

	a.logger.Info("analysis complete",
		"session_id", session.ID,
		"coord", coord.Key(),
		"forecast_source", session.ForecastSource,
		"score", score.Score,
		"risk_level", score.RiskLevel,
		"recommendations", len(recs),
	)

	return session, nil
}

// Get returns a stored session.
func (a *Analyzer) Get(id string) (Session, error) {
	return a.store.Get(id)
}

// Discard deletes a session and everything derived for it.
func (a *Analyzer) Discard(id string) error {
	if err := a.store.Delete(id); err != nil {
		return err
	}
	if a.recorder != nil {
		a.recorder.SetActiveSessions(a.store.Len())
	}
	a.logger.Info("session discarded", "session_id", id)
	return nil
}

func (a *Analyzer) observe(s Session, seconds float64) {
	if a.recorder == nil {
		return
	}
	if s.FallbackReason != "" {
		a.recorder.ObserveFallback()
	}
	types := make([]string, len(s.Recommendations))
	for i, r := range s.Recommendations {
		types[i] = string(r.Type)
	}
	a.recorder.ObserveAnalysis(string(s.Score.RiskLevel), types, seconds)
	a.recorder.SetActiveSessions(a.store.Len())
}
