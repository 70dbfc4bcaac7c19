package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/identity"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/idx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

var (
	ErrInvalidOrganizationRequest = errors.New("invalid organization request")
	ErrEmailAlreadyRegistered     = errors.New("email already registered")
)

// OrganizationRequest provisions a new tenant with its founding admin.
type OrganizationRequest struct {
	Name          string
	AdminName     string
	AdminEmail    string
	AdminPassword string
	AdminSeats    int
	UserSeats     int
	BillingPeriod string // monthly or yearly
}

// OrganizationService provisions tenants: billing subscription, the
// organization row, its default approval group, and the founding admin.
type OrganizationService struct {
	Store    store.Store
	Billing  billing.Provider
	Identity identity.Provider
}

// CreateOrganization provisions a new organization. The founding admin
// consumes one admin seat immediately.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req OrganizationRequest) (domain.Organization, domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the request.
	req.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if req.Name == "" || req.AdminName == "" || req.AdminPassword == "" {
		return domain.Organization{}, domain.User{}, ErrInvalidOrganizationRequest
	}
	if _, err := mail.ParseAddress(req.AdminEmail); err != nil {
		return domain.Organization{}, domain.User{}, ErrInvalidOrganizationRequest
	}
	if req.AdminSeats < 1 || req.UserSeats < 0 {
		return domain.Organization{}, domain.User{}, ErrInvalidOrganizationRequest
	}
	if req.BillingPeriod != "monthly" && req.BillingPeriod != "yearly" {
		return domain.Organization{}, domain.User{}, ErrInvalidOrganizationRequest
	}

	// 2. Set up the billing subscription before touching our own tables;
	// a provider failure leaves nothing to clean up.
	licenses := domain.Licenses{
		Admin: domain.LicenseCount{Total: req.AdminSeats, Used: 1},
		User:  domain.LicenseCount{Total: req.UserSeats, Used: 0},
	}
	sub, err := s.Billing.CreateSubscription(ctx, req.Name, req.AdminEmail, req.BillingPeriod, licenses)
	if err != nil {
		log.Error("failed to create billing subscription", slog.Any("error", err))
		return domain.Organization{}, domain.User{}, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:                 idx.New().String(),
		Name:               req.Name,
		BillingCustomerID:  sub.CustomerID,
		SubscriptionID:     sub.SubscriptionID,
		BillingPeriod:      req.BillingPeriod,
		SubscriptionStatus: sub.Status,
		Licenses:           licenses,
		Settings:           domain.DefaultSettings(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	admin := domain.User{
		ID:             idx.New().String(),
		OrganizationID: org.ID,
		Email:          req.AdminEmail,
		Name:           req.AdminName,
		Role:           domain.RoleOrgAdmin,
		Permissions:    domain.DefaultPermissions(domain.RoleOrgAdmin),
		Status:         domain.UserActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	group := domain.ApprovalGroup{
		ID:             domain.DefaultApprovalGroupID,
		OrganizationID: org.ID,
		Name:           "Default",
		Description:    "Default approval group",
		WorkflowID:     "default",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 3. Create everything in one transaction: org, approval group, admin
	// user, admin credential.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		if err := tx.ApprovalGroups().CreateApprovalGroup(ctx, group); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		return s.Identity.CreateAccount(ctx, tx.Credentials(), admin.ID, admin.Email, req.AdminPassword)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Organization{}, domain.User{}, ErrEmailAlreadyRegistered
		}
		log.Error("failed to provision organization",
			slog.String("org_id", org.ID),
			slog.Any("error", err),
		)
		return domain.Organization{}, domain.User{}, err
	}

	log.Info("organization provisioned",
		slog.String("org_id", org.ID),
		slog.String("name", org.Name),
		slog.Int("admin_seats", req.AdminSeats),
		slog.Int("user_seats", req.UserSeats),
	)
	return org, admin, nil
}
