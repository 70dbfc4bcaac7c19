package membership_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	membershiphttp "github.com/simplereimbursement/membership/internal/membership/http"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/mail"
	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/internal/membership/store/drivers/sqlite"
	"github.com/simplereimbursement/membership/pkg/jwtx"
	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helper functions for membership service end-to-end
 * tests. The full HTTP stack (router, middleware, services, sqlite store) is
 * stood up in-process behind an httptest server and driven through the SDK.
 */

const (
	orgName       = "Initech Pty Ltd"
	adminName     = "Bill Lumbergh"
	adminEmail    = "bill@initech.example"
	adminPassword = "Tps-Reports-2026!"

	memberPassword = "Stapler-Red-1999!"
)

// setupMembershipServer builds the full service against an in-memory database
// and returns the base URL of a running test server.
func setupMembershipServer(t *testing.T) string {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { st.Close() })

	keypair, err := jwtx.GenerateKeypair("e2e-session", "membership-e2e")
	require.NoError(t, err)

	idp := identity.NewLocal(st)
	pay := billing.Noop{}

	licenses := &service.LicenseService{Store: st, Billing: pay}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := membershiphttp.NewRouter(keypair, "e2e", st, logger)
	router.OrganizationService = &service.OrganizationService{
		Store:    st,
		Billing:  pay,
		Identity: idp,
	}
	router.SessionService = &service.SessionService{
		Store:    st,
		Identity: idp,
		Signer:   keypair,
		Issuer:   "membership-e2e",
		TTL:      time.Hour,
	}
	router.InviteService = &service.InviteService{
		Store:    st,
		Licenses: licenses,
		Identity: idp,
		Mailer:   mail.Noop{},
		AppURL:   "https://app.example.test",
		TTL:      7 * 24 * time.Hour,
	}
	router.LicenseService = licenses
	router.UserService = &service.UserService{Store: st, Licenses: licenses}
	router.WebhookService = &service.WebhookService{Store: st, Billing: pay}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv.URL
}

// provisionOrganization signs up a fresh organization with the standard admin
// account and the given seat allocation.
func provisionOrganization(t *testing.T, client *membersdk.Client, adminSeats, userSeats int) *membersdk.OrganizationResponse {
	t.Helper()

	org, err := client.CreateOrganization(t.Context(), membersdk.CreateOrganizationRequest{
		Name:          orgName,
		AdminName:     adminName,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		AdminSeats:    adminSeats,
		UserSeats:     userSeats,
		BillingPeriod: "monthly",
	})
	require.NoError(t, err)
	require.NotNil(t, org)
	return org
}

// loginAdmin authenticates the standard admin account; the token is stored on
// the client for subsequent admin operations.
func loginAdmin(t *testing.T, client *membersdk.Client) *membersdk.SessionResponse {
	t.Helper()

	session, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	return session
}

// issueSingleInvite issues one invitation for the given email and role and
// returns the generated code.
func issueSingleInvite(t *testing.T, client *membersdk.Client, email, role string) membersdk.Invitation {
	t.Helper()

	resp, err := client.IssueInvites(t.Context(), membersdk.IssueInvitesRequest{
		Invites: []membersdk.InviteRow{
			{Email: email, Role: role},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Created)
	require.Len(t, resp.Invitations, 1)
	require.NotEmpty(t, resp.Invitations[0].Code)
	return resp.Invitations[0]
}

// requireAPIError asserts err is an SDK APIError with the given status and
// machine-readable code.
func requireAPIError(t *testing.T, err error, status int, code string) *membersdk.APIError {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*membersdk.APIError)
	require.True(t, ok, "expected *membersdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	if code != "" {
		require.Equal(t, code, apiErr.Response.Error)
	}
	return apiErr
}
