package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// LicenseService owns the per-organization seat ledger. Reservation and
// release run inside store transactions so the used-versus-total invariant
// holds under concurrent issuance.
type LicenseService struct {
	Store   store.Store
	Billing billing.Provider
}

// AvailableSeats returns the organization's current seat availability per class.
func (s *LicenseService) AvailableSeats(ctx context.Context, orgID string) (domain.Licenses, error) {
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Licenses{}, ErrOrganizationNotFound
		}
		return domain.Licenses{}, err
	}
	return org.Licenses, nil
}

// ReserveSeats claims n seats of a class inside the given transaction.
// Returns InsufficientLicensesError carrying needed/available on over-demand.
func (s *LicenseService) ReserveSeats(ctx context.Context, tx store.Tx, orgID string, class domain.SeatClass, n int) error {
	if n <= 0 {
		return nil
	}

	err := tx.Organizations().ReserveSeats(ctx, orgID, class, n)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrInsufficientSeats) {
		org, getErr := tx.Organizations().GetOrganizationByID(ctx, orgID)
		if getErr != nil {
			return getErr
		}
		return &InsufficientLicensesError{
			Class:     class,
			Needed:    n,
			Available: org.Licenses.ForClass(class).Available(),
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrganizationNotFound
	}
	return err
}

// ReleaseSeats returns n seats of a class to the pool, floored at zero.
func (s *LicenseService) ReleaseSeats(ctx context.Context, tx store.Tx, orgID string, class domain.SeatClass, n int) error {
	if n <= 0 {
		return nil
	}
	if err := tx.Organizations().ReleaseSeats(ctx, orgID, class, n); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return err
	}
	return nil
}

// UpdateSeatTotals changes the purchased totals for one or more classes and
// pushes the new quantities to the billing subscription. Totals may shrink
// only down to the currently used count.
func (s *LicenseService) UpdateSeatTotals(ctx context.Context, orgID string, totals map[domain.SeatClass]int) (domain.Licenses, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the organization outside the transaction for the
	// subscription id; the conditional updates re-check usage inside it.
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Licenses{}, ErrOrganizationNotFound
		}
		return domain.Licenses{}, err
	}

	// 2. Apply all class updates in one transaction so a rejected shrink
	// leaves every total untouched.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, class := range domain.SeatClasses {
			total, ok := totals[class]
			if !ok {
				continue
			}
			if err := tx.Organizations().UpdateSeatTotals(ctx, orgID, class, total); err != nil {
				if errors.Is(err, store.ErrSeatTotalBelowUsed) {
					return ErrSeatTotalTooLow
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Licenses{}, err
	}

	// 3. Sync the billing subscription. Provider failures don't roll the
	// ledger back; the mismatch is logged for reconciliation.
	if org.SubscriptionID != "" {
		for _, class := range domain.SeatClasses {
			total, ok := totals[class]
			if !ok {
				continue
			}
			err := s.Billing.UpdateSeatQuantity(ctx, billing.SeatChange{
				SubscriptionID: org.SubscriptionID,
				Class:          class,
				Total:          total,
			})
			if err != nil {
				log.Error("failed to sync seat quantity to billing provider",
					slog.String("org_id", orgID),
					slog.String("class", string(class)),
					slog.Any("error", err),
				)
			}
		}
	}

	updated, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		return domain.Licenses{}, err
	}

	log.Info("seat totals updated",
		slog.String("org_id", orgID),
		slog.Int("admin_total", updated.Licenses.Admin.Total),
		slog.Int("user_total", updated.Licenses.User.Total),
	)
	return updated.Licenses, nil
}
