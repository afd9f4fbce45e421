package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

// Reloader refreshes a record source.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Invalidator drops anything derived from the previous records.
type Invalidator interface {
	Invalidate()
}

// Scheduler periodically reloads the cancer record store and invalidates the
// cached report afterwards.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	reloader    Reloader
	invalidator Invalidator
	interval    time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a new Scheduler. invalidator may be nil.
func New(interval time.Duration, reloader Reloader, invalidator Invalidator, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		reloader:    reloader,
		invalidator: invalidator,
		interval:    interval,
		timeout:     30 * time.Second,
		logger:      logger.With("component", "scheduler"),
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens one interval after start; the store is loaded at startup.
func (s *Scheduler) Start() error {
	if s.reloader == nil {
		s.logger.Info("no reloadable record store configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().SingletonMode().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("record reload scheduled", "every_minutes", minutes)
	return nil
}

// RunOnce reloads the store. The cached report is only invalidated when the
// reload succeeded; a failed reload keeps serving the previous records.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Error("record reload failed", "error", err)
		return
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	s.logger.Info("record reload completed", "duration", time.Since(start))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
