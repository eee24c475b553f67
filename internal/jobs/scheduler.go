package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CacheWarmer primes the read cache. *service.ProjectService satisfies it.
type CacheWarmer interface {
	WarmCache(ctx context.Context) (int, error)
}

// Sweeper drops stale per-client state. *middleware.IPRateLimiter satisfies it.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		log:     log.Named("jobs"),
		timeout: 30 * time.Second,
	}
}

// AddCacheWarm runs w on the cron schedule. An empty schedule leaves the job disabled.
func (s *Scheduler) AddCacheWarm(schedule string, w CacheWarmer) error {
	if schedule == "" {
		s.log.Info("cache warm job disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.warm(w) }); err != nil {
		return fmt.Errorf("schedule cache warm %q: %w", schedule, err)
	}
	return nil
}

// AddSweep runs sw on the cron schedule.
func (s *Scheduler) AddSweep(schedule string, sw Sweeper) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		if n := sw.Sweep(); n > 0 {
			s.log.Debug("swept idle rate limit entries", zap.Int("removed", n))
		}
	}); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", schedule, err)
	}
	return nil
}

func (s *Scheduler) warm(w CacheWarmer) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := w.WarmCache(ctx)
	if err != nil {
		s.log.Warn("cache warm failed", zap.Error(err))
		return
	}
	s.log.Info("cache warmed", zap.Int("projects", n), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() {
	s.log.Info("cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
