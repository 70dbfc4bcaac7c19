package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// RoleOrgAdmin is the role string admin-gated routes require.
const RoleOrgAdmin = "org_admin"

type OrganizationCreateHandler struct {
	OrganizationService *service.OrganizationService
}

// ServeHTTP godoc
//
//	@Summary		Provision Organization
//	@Description	Create a new organization with its billing subscription, seat allocation, default
//	@Description	approval workflow, and founding admin account. The founding admin consumes one admin seat.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.CreateOrganizationRequest	true	"Organization details"
//	@Success		201		{object}	membersdk.OrganizationResponse		"the provisioned organization"
//	@Failure		400		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		500		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Router			/v1/organizations [post].
func (h *OrganizationCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	org, admin, err := h.OrganizationService.CreateOrganization(ctx, service.OrganizationRequest{
		Name:          req.Name,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminSeats:    req.AdminSeats,
		UserSeats:     req.UserSeats,
		BillingPeriod: req.BillingPeriod,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrganizationRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid organization parameters")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteError(w, http.StatusBadRequest, "email_in_use", "Admin email is already registered")
		default:
			log.Error("organization provisioning failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create organization")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, membersdk.OrganizationResponse{
		ID:                 org.ID,
		Name:               org.Name,
		SubscriptionStatus: string(org.SubscriptionStatus),
		BillingPeriod:      org.BillingPeriod,
		Licenses:           toSDKLicenses(org.Licenses),
		AdminUserID:        admin.ID,
	})
}
