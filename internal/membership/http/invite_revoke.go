package http

import (
	"errors"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

type InviteRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation
//	@Description	Cancel a pending invitation and return its reserved seat to the pool. Only
//	@Description	admins of the issuing organization may revoke.
//	@Tags			Invitations
//	@Produce		json
//	@Param			code	path	string	true	"Invitation code"
//	@Success		204		"invitation revoked"
//	@Failure		403		{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	membersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{code} [delete].
func (h *InviteRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID := httpx.UserIDFromCtx(ctx)
	if actorID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	err := h.InviteService.Revoke(ctx, actorID, r.PathValue("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Only admins of the issuing organization can revoke")
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		case errors.Is(err, service.ErrInvitationAlreadyUsed):
			httpx.WriteError(w, http.StatusGone, "invite_used", "Invitation is no longer pending")
		default:
			log.Error("invitation revocation failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to revoke invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
