package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const defaultInterval = 15 * time.Minute

// Sweeper is a store whose expired entries can be dropped in bulk.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Recorder receives the store size after each sweep.
type Recorder interface {
	SetActiveSessions(n int)
}

// Scheduler periodically sweeps expired analysis sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     Sweeper
	interval  time.Duration
	logger    *slog.Logger
	recorder  Recorder
}

// New creates a new Scheduler. recorder may be nil.
func New(store Sweeper, interval time.Duration, logger *slog.Logger, recorder Recorder) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
		logger:    logger,
		recorder:  recorder,
	}
}

// Start schedules the sweep job and starts the underlying scheduler. The
// first sweep runs immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.RunOnce); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Info("session sweeper started", "interval", s.interval)
	return nil
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	removed := s.store.Sweep()
	remaining := s.store.Len()

	if removed > 0 {
		s.logger.Info("expired sessions swept", "removed", removed, "remaining", remaining)
	} else {
		s.logger.Debug("session sweep found nothing to remove", "remaining", remaining)
	}
	if s.recorder != nil {
		s.recorder.SetActiveSessions(remaining)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
