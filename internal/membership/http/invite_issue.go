package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

type InviteIssueHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invitation Batch
//	@Description	Validate and issue a batch of invitations against the organization's available
//	@Description	seats. The batch is all-or-nothing: validation problems are returned together and
//	@Description	no invitation is created unless every row passes and enough seats are available.
//	@Description	Seats are reserved at issuance; invitation emails are sent best-effort afterwards.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.IssueInvitesRequest	true	"Invitation batch"
//	@Success		201		{object}	membersdk.IssueInvitesResponse	"created, emails_sent, emails_failed, invitations"
//	@Failure		400		{object}	membersdk.ErrorResponse			"error, error_description, details"
//	@Failure		401		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/organizations/invites [post].
func (h *InviteIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.IssueInvitesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	actorID := httpx.UserIDFromCtx(ctx)
	orgID := httpx.OrgIDFromCtx(ctx)
	if actorID == "" || orgID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	rows := make([]service.InviteRequest, 0, len(req.Invites))
	for _, row := range req.Invites {
		rows = append(rows, service.InviteRequest{
			Email:           row.Email,
			Name:            row.Name,
			Role:            domain.Role(row.Role),
			ApprovalGroupID: row.ApprovalGroupID,
			ManagerID:       row.ManagerID,
			Permissions:     fromSDKPermissions(row.Permissions),
		})
	}

	result, err := h.InviteService.IssueBatch(ctx, actorID, orgID, rows)
	if err != nil {
		writeIssueError(w, log, err)
		return
	}

	resp := membersdk.IssueInvitesResponse{
		Created:      result.Created,
		EmailsSent:   result.EmailsSent,
		EmailsFailed: result.EmailsFailed,
		Invitations:  make([]membersdk.Invitation, 0, len(result.Invitations)),
	}
	for _, inv := range result.Invitations {
		resp.Invitations = append(resp.Invitations, toSDKInvitation(inv))
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func writeIssueError(w http.ResponseWriter, log *slog.Logger, err error) {
	if v, ok := service.IsValidationFailed(err); ok {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            "validation_failed",
			ErrorDescription: "One or more invitation rows are invalid",
			Details:          v.Problems,
		})
		return
	}
	if lic, ok := service.IsInsufficientLicenses(err); ok {
		httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
			Error:            "insufficient_licenses",
			ErrorDescription: lic.Error(),
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Only organization admins can manage invitations")
	case errors.Is(err, service.ErrOrganizationNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Organization not found")
	case errors.Is(err, service.ErrApprovalGroupNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Approval group not found")
	default:
		log.Error("invitation issuance failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue invitations")
	}
}

type InviteListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		List Invitations
//	@Description	List all invitations of the caller's organization, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	membersdk.IssueInvitesResponse	"invitations"
//	@Failure		401	{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/organizations/invites [get].
func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID := httpx.OrgIDFromCtx(ctx)
	if orgID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	invitations, err := h.InviteService.ListByOrganization(ctx, orgID)
	if err != nil {
		log.Error("failed to list invitations", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list invitations")
		return
	}

	resp := membersdk.IssueInvitesResponse{
		Invitations: make([]membersdk.Invitation, 0, len(invitations)),
	}
	for _, inv := range invitations {
		resp.Invitations = append(resp.Invitations, toSDKInvitation(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
