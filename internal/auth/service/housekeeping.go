package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
)

// DefaultSessionRetention is how long expired or revoked sessions stay on
// file before the sweep deletes them. They are dead for authentication the
// moment they expire; the retention window only keeps them around for
// incident review.
const DefaultSessionRetention = 7 * 24 * time.Hour

// HousekeepingService periodically clears expired rows so pending challenges,
// pending enrolments, and dead sessions do not pile up, and lapsed lockouts
// are lifted even for accounts nobody logs into.
type HousekeepingService struct {
	Store            store.Store
	Logger           *slog.Logger
	Interval         time.Duration
	SessionRetention time.Duration

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 10 minutes.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &HousekeepingService{
		Store:            store,
		Logger:           logger,
		Interval:         interval,
		SessionRetention: DefaultSessionRetention,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the sweep.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep performs one round of expiry work. Each step is independent; a
// failure in one does not stop the others.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	start := time.Now()
	now := s.now()

	if n, err := s.Store.MFAChallenges().DeleteExpiredChallenges(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired MFA challenges", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted expired MFA challenges", "count", n)
		metrics.HousekeepingRowsSwept.WithLabelValues("mfa_challenges").Add(float64(n))
	}

	if n, err := s.Store.MFASetups().DeleteExpiredSetups(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired MFA enrolments", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted expired MFA enrolments", "count", n)
		metrics.HousekeepingRowsSwept.WithLabelValues("mfa_setups").Add(float64(n))
	}

	if n, err := s.Store.Users().UnlockExpired(ctx, now); err != nil {
		s.Logger.Error("failed to unlock expired lockouts", "error", err)
	} else if n > 0 {
		s.Logger.Info("unlocked accounts with lapsed lockouts", "count", n)
		metrics.HousekeepingRowsSwept.WithLabelValues("lockouts").Add(float64(n))
	}

	if n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now.Add(-s.SessionRetention)); err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted expired sessions", "count", n)
		metrics.HousekeepingRowsSwept.WithLabelValues("sessions").Add(float64(n))
	}

	metrics.HousekeepingSweeps.Inc()
	metrics.HousekeepingSweepDuration.Observe(time.Since(start).Seconds())
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
