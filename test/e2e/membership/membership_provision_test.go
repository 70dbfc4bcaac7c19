package membership_test

import (
	"testing"

	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/stretchr/testify/require"
)

// TestProvisionLoginAndHealth tests the initial onboarding flow:
// 1. Provision an organization with a founding admin
// 2. Login with the admin credentials
// 3. List members and find the admin on an admin seat
// 4. Check the health endpoint
func TestProvisionLoginAndHealth(t *testing.T) {
	baseURL := setupMembershipServer(t)
	client := membersdk.NewClient(baseURL)

	// Step 1: Provision
	org := provisionOrganization(t, client, 2, 5)

	t.Logf("Organization provisioned: %s", org.ID)
	t.Logf("Admin User ID: %s", org.AdminUserID)

	require.Equal(t, orgName, org.Name)
	require.Equal(t, "active", org.SubscriptionStatus)
	require.Equal(t, 2, org.Licenses.Admin.Total)
	require.Equal(t, 1, org.Licenses.Admin.Used, "founding admin occupies one admin seat")
	require.Equal(t, 5, org.Licenses.User.Total)
	require.Equal(t, 0, org.Licenses.User.Used)

	// Step 2: Login
	session := loginAdmin(t, client)

	t.Logf("Login successful, token expires at %s", session.ExpiresAt)

	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, org.ID, session.OrganizationID)
	require.Equal(t, org.AdminUserID, session.UserID)
	require.Equal(t, "org_admin", session.Role)

	// Step 3: List members
	members, err := client.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, members.Users, 1)
	require.Equal(t, adminEmail, members.Users[0].Email)
	require.Equal(t, "org_admin", members.Users[0].Role)
	require.Equal(t, "active", members.Users[0].Status)

	// Step 4: Health
	health, err := client.Health(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
}

// TestProvisionValidation checks that malformed signups are rejected with a
// 400 and never create an organization.
func TestProvisionValidation(t *testing.T) {
	baseURL := setupMembershipServer(t)
	client := membersdk.NewClient(baseURL)

	_, err := client.CreateOrganization(t.Context(), membersdk.CreateOrganizationRequest{
		Name:          orgName,
		AdminName:     adminName,
		AdminEmail:    "not-an-email",
		AdminPassword: adminPassword,
		AdminSeats:    1,
		UserSeats:     1,
		BillingPeriod: "monthly",
	})
	requireAPIError(t, err, 400, "invalid_request")

	_, err = client.CreateOrganization(t.Context(), membersdk.CreateOrganizationRequest{
		Name:          orgName,
		AdminName:     adminName,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		AdminSeats:    0,
		UserSeats:     1,
		BillingPeriod: "monthly",
	})
	requireAPIError(t, err, 400, "invalid_request")

	// No organization exists, so the admin cannot login.
	_, err = client.Login(t.Context(), adminEmail, adminPassword)
	requireAPIError(t, err, 401, "invalid_credentials")
}

// TestAdminEndpointsRequireSession checks the authn middleware on admin
// operations.
func TestAdminEndpointsRequireSession(t *testing.T) {
	baseURL := setupMembershipServer(t)
	client := membersdk.NewClient(baseURL)

	provisionOrganization(t, client, 1, 1)

	// No token at all.
	_, err := client.ListUsers(t.Context())
	requireAPIError(t, err, 401, "")

	// Garbage token.
	client.Token = "not-a-jwt"
	_, err = client.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{{Email: "x@initech.example", Role: "user"}},
	})
	requireAPIError(t, err, 401, "")
}
