package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

var ErrCannotRemoveSelf = errors.New("cannot remove your own account")

// UserService lists and removes organization members.
type UserService struct {
	Store    store.Store
	Licenses *LicenseService
}

// ListByOrganization returns all members of the organization, active and
// disabled, ordered by creation date.
func (s *UserService) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	return s.Store.Users().ListByOrganization(ctx, orgID)
}

// RemoveUser soft-disables a member and returns their seat to the pool.
// It performs the following steps:
// 1. Verifies the actor is an org admin of the user's organization
// 2. Disables the user and releases the seat in one transaction
// Removal is never a hard delete; expense history keeps pointing at the row.
func (s *UserService) RemoveUser(ctx context.Context, actorID, userID string) error {
	log := slogx.FromContext(ctx)

	// 1. Resolve both parties and authorize.
	target, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if actor.OrganizationID != target.OrganizationID || actor.Role != domain.RoleOrgAdmin {
		return ErrUnauthorized
	}
	if actor.ID == target.ID {
		return ErrCannotRemoveSelf
	}
	if target.Status == domain.UserDisabled {
		return ErrUserNotFound
	}

	// 2. Disable and release atomically. DisableUser is conditional on the
	// user still being active, so a racing removal cannot release the same
	// seat twice.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().DisableUser(ctx, target.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return s.Licenses.ReleaseSeats(ctx, tx, target.OrganizationID, target.Role.SeatClass(), 1)
	})
	if err != nil {
		return err
	}

	log.Info("user removed",
		slog.String("user_id", target.ID),
		slog.String("org_id", target.OrganizationID),
		slog.String("removed_by", actorID),
	)
	return nil
}
