package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/config"
	"dinehub/internal/core/domain"
	"dinehub/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ErrSweepRunning is returned when a sweep is requested while one is in progress
var ErrSweepRunning = &domain.Error{Kind: domain.ErrConflict, Message: "an expiration sweep is already running"}

// expiryMessage is the notification sent for each expired membership
const expiryMessage = "Your membership (ID: %s) has expired. Please renew to continue enjoying the service."

// sweepTimeout bounds one scheduled run
const sweepTimeout = 5 * time.Minute

// SweepResult summarizes one expiration sweep
type SweepResult struct {
	Expired  int64 `json:"expired"`
	Notified int   `json:"notified"`
	Failed   int   `json:"failed"`
}

// ExpirationService expires memberships past their end date and notifies the owners
type ExpirationService struct {
	membershipRepo repositories.UserMembershipRepository
	notifier       Notifier
	metrics        *metrics.Metrics
	cfg            config.SweepConfig
	now            Clock

	mu   sync.Mutex
	cron *cron.Cron
}

// NewExpirationService creates a new expiration service
func NewExpirationService(
	membershipRepo repositories.UserMembershipRepository,
	notifier Notifier,
	m *metrics.Metrics,
	cfg config.SweepConfig,
) *ExpirationService {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 24 * time.Hour
	}
	return &ExpirationService{
		membershipRepo: membershipRepo,
		notifier:       notifier,
		metrics:        m,
		cfg:            cfg,
		now:            systemClock,
	}
}

// WithClock replaces the time source
func (s *ExpirationService) WithClock(now Clock) *ExpirationService {
	s.now = now
	return s
}

// Start schedules the sweep on the configured cron expression (UTC)
func (s *ExpirationService) Start() error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepRunning) {
			log.Printf("❌ Expiration sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron = c
	c.Start()
	log.Printf("🚀 ExpirationService started [schedule: %s UTC]", s.cfg.Schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *ExpirationService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("🛑 ExpirationService stopped")
}

// RunOnce expires overdue memberships and notifies their owners.
// Runs never overlap; a concurrent call gets ErrSweepRunning.
func (s *ExpirationService) RunOnce(ctx context.Context) (*SweepResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrSweepRunning
	}
	defer s.mu.Unlock()

	started := time.Now()
	now := s.now()

	// Step 1: flip overdue active memberships in one statement
	expired, err := s.membershipRepo.MarkExpiredBatch(ctx, now)
	if err != nil {
		return nil, domain.Internal("mark expired memberships", err)
	}

	// Step 2: notify owners of everything expired in the lookback window not yet notified.
	// Records whose notification failed on an earlier run are picked up again here.
	pending, err := s.membershipRepo.FindRecentlyExpired(ctx, now.Add(-s.cfg.Lookback))
	if err != nil {
		return nil, domain.Internal("find recently expired memberships", err)
	}

	result := &SweepResult{Expired: expired}
	for _, m := range pending {
		if err := s.notifier.Notify(ctx, m.UserID, fmt.Sprintf(expiryMessage, m.ID)); err != nil {
			result.Failed++
			log.Printf("⚠️ Expiry notification failed for membership %s: %v", m.ID, err)
			continue
		}
		if err := s.membershipRepo.MarkExpiryNotified(ctx, m.ID, now); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Failed to record expiry notification for membership %s: %v", m.ID, err)
		}
		result.Notified++
	}

	s.metrics.ObserveSweep(int(result.Expired), result.Notified, result.Failed, time.Since(started))
	log.Printf("🧹 Expiration sweep: %d expired, %d notified, %d failed", result.Expired, result.Notified, result.Failed)
	return result, nil
}
