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

type InviteValidateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Validate Invitation Code
//	@Description	Resolve an invitation code into the summary shown on the accept page. Expired
//	@Description	codes return 410 even when the stored status is still pending.
//	@Tags			Invitations
//	@Produce		json
//	@Param			code	path		string								true	"Invitation code"
//	@Success		200		{object}	membersdk.ValidateInviteResponse	"organization_name, email, role, invited_by, expires_at"
//	@Failure		404		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Failure		410		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Router			/v1/invites/{code}/validate [get].
func (h *InviteValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	summary, err := h.InviteService.Validate(ctx, r.PathValue("code"))
	if err != nil {
		writeInviteLookupError(w, err)
		if !isInviteLookupError(err) {
			log.Error("invitation validation failed", "error", err)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, membersdk.ValidateInviteResponse{
		OrganizationName: summary.OrganizationName,
		Email:            summary.Email,
		Name:             summary.Name,
		Role:             string(summary.Role),
		InvitedBy:        summary.InvitedBy,
		ExpiresAt:        summary.ExpiresAt,
	})
}

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invitation
//	@Description	Redeem an invitation code into an account. The seat was already reserved at
//	@Description	issuance, so acceptance never fails for license reasons. A code can be redeemed
//	@Description	exactly once; replays return 410.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			code	path		string							true	"Invitation code"
//	@Param			request	body		membersdk.AcceptInviteRequest	true	"Account details"
//	@Success		201		{object}	membersdk.AcceptInviteResponse	"success, uid"
//	@Failure		400		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		410		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invites/{code}/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	user, err := h.InviteService.Accept(ctx, r.PathValue("code"), req.Name, req.Password)
	if err != nil {
		if v, ok := service.IsValidationFailed(err); ok {
			httpx.WriteJSON(w, http.StatusBadRequest, membersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Invalid account details",
				Details:          v.Problems,
			})
			return
		}
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			httpx.WriteError(w, http.StatusConflict, "email_in_use", "Email is already registered to an account")
			return
		}
		writeInviteLookupError(w, err)
		if !isInviteLookupError(err) {
			log.Error("invitation acceptance failed", "error", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, membersdk.AcceptInviteResponse{
		Success: true,
		UID:     user.ID,
	})
}

func isInviteLookupError(err error) bool {
	return errors.Is(err, service.ErrInvitationNotFound) ||
		errors.Is(err, service.ErrInvitationExpired) ||
		errors.Is(err, service.ErrInvitationAlreadyUsed)
}

// writeInviteLookupError maps the invitation lifecycle errors onto the
// statuses the accept frontend distinguishes: 404 unknown, 410 dead.
func writeInviteLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvitationNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
	case errors.Is(err, service.ErrInvitationExpired):
		httpx.WriteError(w, http.StatusGone, "invite_expired", "Invitation has expired")
	case errors.Is(err, service.ErrInvitationAlreadyUsed):
		httpx.WriteError(w, http.StatusGone, "invite_used", "Invitation has already been used")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process invitation")
	}
}
