package store

import (
	"context"
	"errors"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrInsufficientSeats is returned by ReserveSeats when the conditional
	// increment would push used past total.
	ErrInsufficientSeats = errors.New("store: insufficient seats")

	// ErrSeatTotalBelowUsed is returned by UpdateSeatTotals when the new
	// total would undercut seats already claimed.
	ErrSeatTotalBelowUsed = errors.New("store: seat total below used count")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Organizations() Organizations
	Invitations() Invitations
	Users() Users
	ApprovalGroups() ApprovalGroups
	Credentials() Credentials

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// GetOrganizationBySubscriptionID looks an organization up by its billing
	// subscription, used when applying provider webhooks.
	GetOrganizationBySubscriptionID(ctx context.Context, subscriptionID string) (domain.Organization, error)

	// CreateOrganization inserts a new organization (id is provided by app via ULID).
	CreateOrganization(ctx context.Context, org domain.Organization) error

	// ReserveSeats atomically increments used for the class, failing with
	// ErrInsufficientSeats when used + n would exceed total. Bumps updated_at.
	ReserveSeats(ctx context.Context, orgID string, class domain.SeatClass, n int) error

	// ReleaseSeats decrements used for the class, floored at zero. Bumps updated_at.
	ReleaseSeats(ctx context.Context, orgID string, class domain.SeatClass, n int) error

	// UpdateSeatTotals sets the total for the class, failing with
	// ErrSeatTotalBelowUsed when the new total undercuts current usage.
	UpdateSeatTotals(ctx context.Context, orgID string, class domain.SeatClass, total int) error

	// UpdateSubscriptionStatus applies a billing-provider status change.
	UpdateSubscriptionStatus(ctx context.Context, orgID string, status domain.SubscriptionStatus) error
}

type Invitations interface {
	// CreateInvitation writes a new invitation row. Code collisions surface
	// as ErrAlreadyExists so the issuer can re-roll.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByCode returns an invitation by its (normalized) code.
	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)

	// GetPendingInvitationByEmail returns the pending invitation for email
	// in the organization, or ErrNotFound when there is none. At most one
	// can exist per organization and email.
	GetPendingInvitationByEmail(ctx context.Context, orgID, email string) (domain.Invitation, error)

	// MarkInvitationAccepted flips a still-pending invitation to accepted.
	// Returns ErrNotFound if the row is no longer pending, which makes the
	// flip safe to race.
	MarkInvitationAccepted(ctx context.Context, id, acceptedBy string, at time.Time) error

	// MarkInvitationRevoked flips a still-pending invitation to revoked.
	MarkInvitationRevoked(ctx context.Context, id string) error

	// MarkInvitationExpired flips a still-pending invitation to expired.
	MarkInvitationExpired(ctx context.Context, id string) error

	// ListExpiredPending returns pending invitations whose expiry has passed,
	// for the housekeeping reclamation pass.
	ListExpiredPending(ctx context.Context, now time.Time) ([]domain.Invitation, error)

	// ListByOrganization returns all invitations for an organization,
	// newest first.
	ListByOrganization(ctx context.Context, orgID string) ([]domain.Invitation, error)
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by email within an organization.
	GetUserByEmail(ctx context.Context, orgID, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListByOrganization returns all users of an organization ordered by
	// creation date.
	ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error)

	// DisableUser soft-disables an active user. Returns ErrNotFound if the
	// user does not exist or is already disabled.
	DisableUser(ctx context.Context, id string) error
}

type ApprovalGroups interface {
	// GetApprovalGroup returns an org-scoped approval group.
	GetApprovalGroup(ctx context.Context, orgID, id string) (domain.ApprovalGroup, error)

	// CreateApprovalGroup inserts a new approval group.
	CreateApprovalGroup(ctx context.Context, g domain.ApprovalGroup) error

	// ListByOrganization returns all approval groups of an organization.
	ListByOrganization(ctx context.Context, orgID string) ([]domain.ApprovalGroup, error)
}

type Credentials interface {
	// CreateCredential stores a credential for the built-in identity driver.
	// Emails are globally unique across organizations.
	CreateCredential(ctx context.Context, c domain.Credential) error

	// GetCredentialByEmail returns the credential for a login email.
	GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error)
}
