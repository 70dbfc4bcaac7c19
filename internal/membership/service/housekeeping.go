package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/store"
)

// HousekeepingService periodically reclaims seats held by invitations that
// expired without being accepted. Each invitation is expired and its seat
// released in one transaction, so a crash mid-pass never strands a seat.
type HousekeepingService struct {
	Store    store.Store
	Licenses *LicenseService
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(s store.Store, licenses *LicenseService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    s,
		Licenses: licenses,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically reclaims seats.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress pass.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a pass immediately on startup
	s.reclaim()

	for {
		select {
		case <-ticker.C:
			s.reclaim()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) reclaim() {
	ctx := context.Background()
	n, err := s.ReclaimExpired(ctx, time.Now().UTC())
	if err != nil {
		s.Logger.Error("housekeeping pass failed", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("reclaimed seats from expired invitations", "count", n)
	}
}

// ReclaimExpired marks pending invitations past expiry as expired and
// releases their seats. Returns how many invitations were reclaimed.
// Exported so tests and operators can run a pass on demand.
func (s *HousekeepingService) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.Store.Invitations().ListExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, inv := range expired {
		// One transaction per invitation. The conditional flip protects
		// against an acceptance racing the reclamation: if the invitation
		// is no longer pending the flip misses and nothing is released.
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Invitations().MarkInvitationExpired(ctx, inv.ID); err != nil {
				return err
			}
			return s.Licenses.ReleaseSeats(ctx, tx, inv.OrganizationID, inv.Role.SeatClass(), 1)
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue // lost the race to an acceptance
			}
			s.Logger.Error("failed to reclaim invitation",
				"invitation_id", inv.ID,
				"error", err,
			)
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}
