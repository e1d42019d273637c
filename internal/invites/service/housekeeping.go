package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/invites/pkg/slogx"
)

// Cleaner purges expired records and reports how many were removed.
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// HousekeepingService periodically purges expired invites to prevent
// unbounded growth of the invites table.
type HousekeepingService struct {
	Cleaner  Cleaner
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}

	// ctx bounds every pass; Stop cancels it so a hung store call cannot
	// hold up shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(cleaner Cleaner, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &HousekeepingService{
		Cleaner:  cleaner,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker, cancelling any in-progress cleanup,
// and blocks until the worker has exited.
func (s *HousekeepingService) Stop() {
	s.cancel()
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs one pass. A failed pass is logged by the cleaner and retried
// on the next tick.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(s.ctx, s.Interval)
	defer cancel()
	ctx = slogx.WithContext(ctx, s.Logger.With("component", "housekeeping"))

	s.Logger.Debug("starting housekeeping cleanup")
	if _, err := s.Cleaner.Cleanup(ctx); err != nil {
		return
	}
	s.Logger.Debug("housekeeping cleanup completed")
}
