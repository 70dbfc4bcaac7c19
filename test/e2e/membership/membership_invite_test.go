package membership_test

import (
	"testing"

	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/stretchr/testify/require"
)

// TestInviteIssueAcceptFlow tests the complete invitation lifecycle:
// 1. Provision an organization and login as admin
// 2. Issue an invitation batch for a new member
// 3. Validate the code as the (unauthenticated) accept page would
// 4. Accept the invitation to create the account
// 5. Login as the new member
// 6. Check the member list and seat ledger
func TestInviteIssueAcceptFlow(t *testing.T) {
	baseURL := setupMembershipServer(t)
	admin := membersdk.NewClient(baseURL)

	// Step 1: Provision and login
	org := provisionOrganization(t, admin, 2, 3)
	loginAdmin(t, admin)

	// Step 2: Issue a batch with one user and one approver
	resp, err := admin.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{
			{Email: "milton@initech.example", Name: "Milton Waddams", Role: "user"},
			{Email: "dom@initech.example", Name: "Dom Portwood", Role: "approver"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Created)
	require.Len(t, resp.Invitations, 2)

	code := resp.Invitations[0].Code
	t.Logf("Invitation issued, code: %s", code)

	// Step 3: Validate as the accept page
	anon := membersdk.NewClient(baseURL)
	summary, err := anon.ValidateInvite(t.Context(), code)
	require.NoError(t, err)
	require.Equal(t, orgName, summary.OrganizationName)
	require.Equal(t, "milton@initech.example", summary.Email)
	require.Equal(t, "user", summary.Role)
	require.Equal(t, adminName, summary.InvitedBy)

	// Step 4: Accept
	accepted, err := anon.AcceptInvite(t.Context(), code, membersdk.AcceptInviteRequest{
		Password: memberPassword,
	})
	require.NoError(t, err)
	require.True(t, accepted.Success)
	require.NotEmpty(t, accepted.UID)

	t.Logf("Invitation accepted, new user: %s", accepted.UID)

	// Step 5: Login as the member
	member := membersdk.NewClient(baseURL)
	session, err := member.Login(t.Context(), "milton@initech.example", memberPassword)
	require.NoError(t, err)
	require.Equal(t, accepted.UID, session.UserID)
	require.Equal(t, org.ID, session.OrganizationID)
	require.Equal(t, "user", session.Role)

	// Step 6: Two members now; both issued invites still hold their seats
	members, err := admin.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, members.Users, 2)

	// A replayed accept must not mint a second account.
	_, err = anon.AcceptInvite(t.Context(), code, membersdk.AcceptInviteRequest{
		Password: "Another-Password-1!",
	})
	requireAPIError(t, err, 410, "invite_used")
}

// TestInviteBatchValidationProblems checks that a bad batch is rejected as a
// whole with every problem reported, and that nothing is issued.
func TestInviteBatchValidationProblems(t *testing.T) {
	baseURL := setupMembershipServer(t)
	admin := membersdk.NewClient(baseURL)

	provisionOrganization(t, admin, 1, 5)
	loginAdmin(t, admin)

	_, err := admin.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{
			{Email: "peter@initech.example", Role: "user"},
			{Email: "not-an-email", Role: "user"},
			{Email: adminEmail, Role: "user"}, // already a member
		},
	})
	apiErr := requireAPIError(t, err, 400, "validation_failed")
	require.Len(t, apiErr.Response.Details, 2)

	// The valid first row must not have been issued either.
	list, err := admin.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{
			{Email: "peter@initech.example", Role: "user"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, list.Created)
}

// TestInviteRevoke tests that a revoked code stops validating and accepting,
// and that the seat is released for the next invitation.
func TestInviteRevoke(t *testing.T) {
	baseURL := setupMembershipServer(t)
	admin := membersdk.NewClient(baseURL)

	provisionOrganization(t, admin, 1, 1)
	loginAdmin(t, admin)

	inv := issueSingleInvite(t, admin, "milton@initech.example", "user")

	// The single user seat is now reserved.
	_, err := admin.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{{Email: "samir@initech.example", Role: "user"}},
	})
	requireAPIError(t, err, 400, "insufficient_licenses")

	// Revoke and check the code is dead.
	require.NoError(t, admin.RevokeInvite(t.Context(), inv.Code))

	anon := membersdk.NewClient(baseURL)
	_, err = anon.ValidateInvite(t.Context(), inv.Code)
	requireAPIError(t, err, 410, "invite_used")

	_, err = anon.AcceptInvite(t.Context(), inv.Code, membersdk.AcceptInviteRequest{
		Password: memberPassword,
	})
	requireAPIError(t, err, 410, "invite_used")

	// The seat is free again.
	issueSingleInvite(t, admin, "samir@initech.example", "user")
}

// TestInviteRequiresAdminRole checks that a regular member cannot manage
// invitations.
func TestInviteRequiresAdminRole(t *testing.T) {
	baseURL := setupMembershipServer(t)
	admin := membersdk.NewClient(baseURL)

	provisionOrganization(t, admin, 1, 2)
	loginAdmin(t, admin)

	inv := issueSingleInvite(t, admin, "milton@initech.example", "user")

	anon := membersdk.NewClient(baseURL)
	_, err := anon.AcceptInvite(t.Context(), inv.Code, membersdk.AcceptInviteRequest{
		Password: memberPassword,
	})
	require.NoError(t, err)

	member := membersdk.NewClient(baseURL)
	_, err = member.Login(t.Context(), "milton@initech.example", memberPassword)
	require.NoError(t, err)

	_, err = member.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{{Email: "samir@initech.example", Role: "user"}},
	})
	requireAPIError(t, err, 403, "")

	err = member.RevokeInvite(t.Context(), inv.Code)
	requireAPIError(t, err, 403, "")
}

// TestValidateUnknownCode checks the public lookup for a code that was never
// issued.
func TestValidateUnknownCode(t *testing.T) {
	baseURL := setupMembershipServer(t)
	anon := membersdk.NewClient(baseURL)

	_, err := anon.ValidateInvite(t.Context(), "ZZZZ9999")
	requireAPIError(t, err, 404, "")
}

// TestInviteEmailRegisteredInAnotherOrganization covers both sides of the
// cross-organization email uniqueness rule: issuance rejects an email that
// already holds an account anywhere, and an acceptance racing a signup
// elsewhere comes back as a correctable conflict rather than a server error.
func TestInviteEmailRegisteredInAnotherOrganization(t *testing.T) {
	baseURL := setupMembershipServer(t)
	admin := membersdk.NewClient(baseURL)
	provisionOrganization(t, admin, 1, 2)
	loginAdmin(t, admin)

	// peter's invitation is issued before he has any account.
	invite := issueSingleInvite(t, admin, "peter@gibbons.example", "user")

	// He then founds his own organization with the same email.
	other := membersdk.NewClient(baseURL)
	_, err := other.CreateOrganization(t.Context(), membersdk.CreateOrganizationRequest{
		Name:          "Gibbons Consulting",
		AdminName:     "Peter Gibbons",
		AdminEmail:    "peter@gibbons.example",
		AdminPassword: "Flair-Minimum-15!",
		AdminSeats:    1,
		UserSeats:     1,
		BillingPeriod: "monthly",
	})
	require.NoError(t, err)

	// Accepting the earlier invitation now conflicts instead of failing
	// opaquely; the admin can revoke it to free the seat.
	anon := membersdk.NewClient(baseURL)
	_, err = anon.AcceptInvite(t.Context(), invite.Code, membersdk.AcceptInviteRequest{
		Password: "Tps-Cover-Sheet-1!",
	})
	requireAPIError(t, err, 409, "email_in_use")
	require.NoError(t, admin.RevokeInvite(t.Context(), invite.Code))

	// A fresh invitation for that email no longer passes batch validation.
	_, err = admin.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{
			{Email: "peter@gibbons.example", Role: "user"},
		},
	})
	apiErr := requireAPIError(t, err, 400, "validation_failed")
	require.Len(t, apiErr.Response.Details, 1)
}
