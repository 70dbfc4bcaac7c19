package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

func TestIssueBatchMixedClasses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 2, 3)

	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "bob@acme.example", Name: "Bob", Role: domain.RoleOrgAdmin},
		{Email: "carol@acme.example", Name: "Carol", Role: domain.RoleUser},
		{Email: "dave@acme.example", Name: "Dave", Role: domain.RoleApprover},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Created)
	require.Equal(t, 3, result.EmailsSent)
	require.Equal(t, 0, result.EmailsFailed)
	require.Len(t, env.Mailer.Invites, 3)

	// Approvers consume user seats; only org admins hit the admin pool.
	lic := env.licenses(t, org.ID)
	require.Equal(t, 2, lic.Admin.Used) // founding admin + bob
	require.Equal(t, 2, lic.User.Used)  // carol + dave

	invitations, err := env.Invites.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 3)
	for _, inv := range invitations {
		require.Equal(t, domain.InvitationPending, inv.Status)
		require.Len(t, inv.Code, 8)
	}
}

func TestIssueBatchOverDemandChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 1)

	_, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "u1@acme.example", Role: domain.RoleUser},
		{Email: "u2@acme.example", Role: domain.RoleUser},
	})
	lic, ok := IsInsufficientLicenses(err)
	require.True(t, ok)
	require.Equal(t, domain.SeatClassUser, lic.Class)
	require.Equal(t, 2, lic.Needed)
	require.Equal(t, 1, lic.Available)

	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)
	invitations, err := env.Invites.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)
	require.Empty(t, env.Mailer.Invites)
}

func TestIssueBatchCollectsAllValidationProblems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 2, 5)

	// Row 0 is fine, row 1 has a broken email, row 2 duplicates row 0,
	// row 3 targets the already-registered founding admin.
	_, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "eve@acme.example", Role: domain.RoleUser},
		{Email: "not-an-email", Role: domain.RoleUser},
		{Email: "EVE@acme.example", Role: domain.RoleUser},
		{Email: "alice@acme.example", Role: domain.RoleUser},
	})
	v, ok := IsValidationFailed(err)
	require.True(t, ok)
	require.Len(t, v.Problems, 3)

	// All-or-nothing: even the valid row was not written.
	invitations, err := env.Invites.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)
	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)
}

func TestIssueBatchRejectsPendingDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 2)

	_, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "frank@acme.example", Role: domain.RoleUser},
	})
	require.NoError(t, err)

	_, err = env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "frank@acme.example", Role: domain.RoleUser},
	})
	v, ok := IsValidationFailed(err)
	require.True(t, ok)
	require.Len(t, v.Problems, 1)
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)
}

func TestIssueBatchAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 2, 2)

	// Invite and accept a regular user, then have them attempt issuance.
	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "grace@acme.example", Name: "Grace", Role: domain.RoleUser},
	})
	require.NoError(t, err)
	grace, err := env.Invites.Accept(ctx, result.Invitations[0].Code, "", "grace-password-1")
	require.NoError(t, err)

	_, err = env.Invites.IssueBatch(ctx, grace.ID, org.ID, []InviteRequest{
		{Email: "mallory@acme.example", Role: domain.RoleUser},
	})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.Invites.IssueBatch(ctx, "ghost", org.ID, []InviteRequest{
		{Email: "mallory@acme.example", Role: domain.RoleUser},
	})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAcceptCreatesUserOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 2)

	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "heidi@acme.example", Name: "Heidi", Role: domain.RoleApprover},
	})
	require.NoError(t, err)
	code := result.Invitations[0].Code

	user, err := env.Invites.Accept(ctx, code, "Heidi H", "heidi-password-1")
	require.NoError(t, err)
	require.Equal(t, "heidi@acme.example", user.Email)
	require.Equal(t, domain.RoleApprover, user.Role)
	require.True(t, user.Permissions.Approver.IsApprover)
	require.Len(t, env.Mailer.Welcomes, 1)

	// The credential works.
	uid, err := env.Identity.Authenticate(ctx, "heidi@acme.example", "heidi-password-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)

	// Replay: same code again creates nothing.
	_, err = env.Invites.Accept(ctx, code, "Intruder", "other-password-9")
	require.ErrorIs(t, err, ErrInvitationAlreadyUsed)

	users, err := env.Users.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, users, 2) // founding admin + heidi

	// The seat reserved at issuance was consumed, not double-counted.
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)
}

func TestAcceptCodeIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 1)

	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "ivan@acme.example", Role: domain.RoleUser},
	})
	require.NoError(t, err)

	lowered := " " + strings.ToLower(result.Invitations[0].Code) + " "
	user, err := env.Invites.Accept(ctx, lowered, "Ivan", "ivan-password-1")
	require.NoError(t, err)
	require.Equal(t, "ivan@acme.example", user.Email)
}

func TestValidateLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 3)

	t.Run("unknown code", func(t *testing.T) {
		_, err := env.Invites.Validate(ctx, "ZZZZZZZZ")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("pending code returns summary", func(t *testing.T) {
		result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
			{Email: "judy@acme.example", Name: "Judy", Role: domain.RoleUser},
		})
		require.NoError(t, err)

		summary, err := env.Invites.Validate(ctx, result.Invitations[0].Code)
		require.NoError(t, err)
		require.Equal(t, org.Name, summary.OrganizationName)
		require.Equal(t, "judy@acme.example", summary.Email)
		require.Equal(t, admin.Name, summary.InvitedBy)
	})

	t.Run("accepted code reports already used", func(t *testing.T) {
		result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
			{Email: "kim@acme.example", Role: domain.RoleUser},
		})
		require.NoError(t, err)
		_, err = env.Invites.Accept(ctx, result.Invitations[0].Code, "Kim", "kim-password-12")
		require.NoError(t, err)

		_, err = env.Invites.Validate(ctx, result.Invitations[0].Code)
		require.ErrorIs(t, err, ErrInvitationAlreadyUsed)
	})

	t.Run("past expiry wins over pending status", func(t *testing.T) {
		inv := env.seedExpiredInvitation(t, org.ID, admin.ID, "late@acme.example", domain.RoleUser)

		_, err := env.Invites.Validate(ctx, inv.Code)
		require.ErrorIs(t, err, ErrInvitationExpired)

		_, err = env.Invites.Accept(ctx, inv.Code, "Larry", "larry-password-1")
		require.ErrorIs(t, err, ErrInvitationExpired)
	})
}

func TestRevokeReleasesSeat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 1)

	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "mallory@acme.example", Role: domain.RoleUser},
	})
	require.NoError(t, err)
	code := result.Invitations[0].Code
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)

	require.NoError(t, env.Invites.Revoke(ctx, admin.ID, code))
	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)

	// The revoked code can no longer be accepted, and revoking twice fails.
	_, err = env.Invites.Accept(ctx, code, "Mallory", "mallory-password")
	require.ErrorIs(t, err, ErrInvitationAlreadyUsed)
	require.ErrorIs(t, env.Invites.Revoke(ctx, admin.ID, code), ErrInvitationAlreadyUsed)
	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)
}

func TestIssueBatchRejectsEmailRegisteredElsewhere(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 2)

	// bianca already holds an account as the founding admin of another
	// organization; login emails are unique across all of them.
	_, _, err := env.Organizations.CreateOrganization(ctx, OrganizationRequest{
		Name:          "Beta Industries",
		AdminName:     "Bianca Boss",
		AdminEmail:    "bianca@beta.example",
		AdminPassword: "beta-password-22",
		AdminSeats:    1,
		UserSeats:     1,
		BillingPeriod: "monthly",
	})
	require.NoError(t, err)

	_, err = env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "bianca@beta.example", Role: domain.RoleUser},
	})
	v, ok := IsValidationFailed(err)
	require.True(t, ok)
	require.Len(t, v.Problems, 1)
	require.Contains(t, v.Problems[0], "already registered")
	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)
}

func TestAcceptConflictsWhenEmailRegisteredElsewhere(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 2)

	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "carol@beta.example", Role: domain.RoleUser},
	})
	require.NoError(t, err)
	code := result.Invitations[0].Code

	// carol signs up elsewhere between issuance and acceptance.
	_, _, err = env.Organizations.CreateOrganization(ctx, OrganizationRequest{
		Name:          "Beta Industries",
		AdminName:     "Carol Chief",
		AdminEmail:    "carol@beta.example",
		AdminPassword: "beta-password-22",
		AdminSeats:    1,
		UserSeats:     1,
		BillingPeriod: "monthly",
	})
	require.NoError(t, err)

	_, err = env.Invites.Accept(ctx, code, "Carol", "carol-password-1")
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	// The failed acceptance rolled back: no user in this organization,
	// the invitation stays pending so the admin can revoke the seat.
	users, err := env.Users.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	inv, err := env.Store.Invitations().GetInvitationByCode(ctx, code)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)

	require.NoError(t, env.Invites.Revoke(ctx, admin.ID, code))
	require.Equal(t, 0, env.licenses(t, org.ID).User.Used)
}

func TestIssueBatchReclaimsExpiredHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org, admin := env.seedOrg(t, 1, 1)

	// An expired invitation still holds the only user seat because the
	// housekeeping pass has not run yet.
	stale := env.seedExpiredInvitation(t, org.ID, admin.ID, "larry@acme.example", domain.RoleUser)
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)

	// Re-inviting the same email reclaims the stale hold inline instead of
	// reporting a pending duplicate.
	result, err := env.Invites.IssueBatch(ctx, admin.ID, org.ID, []InviteRequest{
		{Email: "larry@acme.example", Role: domain.RoleUser},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	old, err := env.Store.Invitations().GetInvitationByCode(ctx, stale.Code)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, old.Status)

	// The seat was released and re-reserved, not double-counted.
	require.Equal(t, 1, env.licenses(t, org.ID).User.Used)

	// The fresh code is acceptable.
	_, err = env.Invites.Accept(ctx, result.Invitations[0].Code, "Larry", "larry-password-1")
	require.NoError(t, err)
}
