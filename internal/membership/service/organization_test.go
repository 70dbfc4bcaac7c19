package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

func TestCreateOrganization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, admin, err := env.Organizations.CreateOrganization(ctx, OrganizationRequest{
		Name:          "Globex Corp",
		AdminName:     "Hank Scorpio",
		AdminEmail:    "Hank@Globex.Example",
		AdminPassword: "volcano-lair-9",
		AdminSeats:    2,
		UserSeats:     10,
		BillingPeriod: "yearly",
	})
	require.NoError(t, err)

	// The founding admin consumes one admin seat immediately.
	require.Equal(t, 2, org.Licenses.Admin.Total)
	require.Equal(t, 1, org.Licenses.Admin.Used)
	require.Equal(t, 10, org.Licenses.User.Total)
	require.Equal(t, 0, org.Licenses.User.Used)
	require.Equal(t, domain.SubscriptionActive, org.SubscriptionStatus)
	require.NotEmpty(t, org.BillingCustomerID)
	require.NotEmpty(t, org.SubscriptionID)

	// Email is normalized and the credential works.
	require.Equal(t, "hank@globex.example", admin.Email)
	require.Equal(t, domain.RoleOrgAdmin, admin.Role)
	uid, err := env.Identity.Authenticate(ctx, "hank@globex.example", "volcano-lair-9")
	require.NoError(t, err)
	require.Equal(t, admin.ID, uid)

	// Default settings and approval group are provisioned.
	stored, err := env.Store.Organizations().GetOrganizationByID(ctx, org.ID)
	require.NoError(t, err)
	require.Contains(t, stored.Settings.ApprovalWorkflows, "default")
	require.NotEmpty(t, stored.Settings.ExpenseCategories)
	require.Equal(t, "USD", stored.Settings.DefaultCurrency)

	group, err := env.Store.ApprovalGroups().GetApprovalGroup(ctx, org.ID, domain.DefaultApprovalGroupID)
	require.NoError(t, err)
	require.Equal(t, "default", group.WorkflowID)
}

func TestCreateOrganizationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := OrganizationRequest{
		Name:          "Initech",
		AdminName:     "Bill",
		AdminEmail:    "bill@initech.example",
		AdminPassword: "tps-reports-1",
		AdminSeats:    1,
		UserSeats:     5,
		BillingPeriod: "monthly",
	}

	mutations := map[string]func(r *OrganizationRequest){
		"missing name":       func(r *OrganizationRequest) { r.Name = "" },
		"bad email":          func(r *OrganizationRequest) { r.AdminEmail = "nope" },
		"zero admin seats":   func(r *OrganizationRequest) { r.AdminSeats = 0 },
		"negative user seat": func(r *OrganizationRequest) { r.UserSeats = -1 },
		"bad billing period": func(r *OrganizationRequest) { r.BillingPeriod = "weekly" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, _, err := env.Organizations.CreateOrganization(ctx, req)
			require.ErrorIs(t, err, ErrInvalidOrganizationRequest)
		})
	}

	t.Run("duplicate admin email", func(t *testing.T) {
		_, _, err := env.Organizations.CreateOrganization(ctx, base)
		require.NoError(t, err)
		second := base
		second.Name = "Initech Two"
		_, _, err = env.Organizations.CreateOrganization(ctx, second)
		require.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	})
}
