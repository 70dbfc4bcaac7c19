package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/mail"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/internal/membership/store/drivers/sqlite"
	"github.com/simplereimbursement/membership/pkg/cryptox"
	"github.com/simplereimbursement/membership/pkg/idx"
)

// testEnv wires the full service stack against an in-memory store with a
// noop billing provider and a recording mailer.
type testEnv struct {
	Store         store.Store
	Mailer        *mail.Recorder
	Licenses      *LicenseService
	Organizations *OrganizationService
	Invites       *InviteService
	Users         *UserService
	Identity      *identity.Local
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &mail.Recorder{}
	id := identity.NewLocal(st)
	licenses := &LicenseService{Store: st, Billing: billing.Noop{}}

	return &testEnv{
		Store:    st,
		Mailer:   mailer,
		Licenses: licenses,
		Identity: id,
		Organizations: &OrganizationService{
			Store:    st,
			Billing:  billing.Noop{},
			Identity: id,
		},
		Invites: &InviteService{
			Store:    st,
			Licenses: licenses,
			Identity: id,
			Mailer:   mailer,
			AppURL:   "https://app.example.test",
		},
		Users: &UserService{
			Store:    st,
			Licenses: licenses,
		},
	}
}

// seedOrg provisions an organization with the given seat totals and returns
// it with its founding admin. The admin consumes one admin seat.
func (e *testEnv) seedOrg(t *testing.T, adminSeats, userSeats int) (domain.Organization, domain.User) {
	t.Helper()

	org, admin, err := e.Organizations.CreateOrganization(context.Background(), OrganizationRequest{
		Name:          "Acme Pty Ltd",
		AdminName:     "Alice Admin",
		AdminEmail:    "alice@acme.example",
		AdminPassword: "correct-horse-battery",
		AdminSeats:    adminSeats,
		UserSeats:     userSeats,
		BillingPeriod: "monthly",
	})
	require.NoError(t, err)
	return org, admin
}

// licenses re-reads the organization's current ledger.
func (e *testEnv) licenses(t *testing.T, orgID string) domain.Licenses {
	t.Helper()

	org, err := e.Store.Organizations().GetOrganizationByID(context.Background(), orgID)
	require.NoError(t, err)
	return org.Licenses
}

// seedExpiredInvitation reserves a seat and inserts a pending invitation
// whose expiry already passed, simulating an invite the housekeeping pass
// has not caught up with yet.
func (e *testEnv) seedExpiredInvitation(t *testing.T, orgID, createdBy, email string, role domain.Role) domain.Invitation {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:              idx.New().String(),
		Email:           email,
		Name:            "Late Larry",
		Role:            role,
		Permissions:     domain.DefaultPermissions(role),
		OrganizationID:  orgID,
		ApprovalGroupID: domain.DefaultApprovalGroupID,
		Status:          domain.InvitationPending,
		CreatedBy:       createdBy,
		CreatedAt:       now.Add(-8 * 24 * time.Hour),
		ExpiresAt:       now.Add(-24 * time.Hour),
	}
	code, err := cryptox.GenerateInviteCode()
	require.NoError(t, err)
	inv.Code = code

	err = e.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().ReserveSeats(ctx, orgID, role.SeatClass(), 1); err != nil {
			return err
		}
		return tx.Invitations().CreateInvitation(ctx, inv)
	})
	require.NoError(t, err)
	return inv
}
