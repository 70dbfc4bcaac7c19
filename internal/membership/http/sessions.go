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

type SessionHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Exchange email and password for a signed session token. The token carries the
//	@Description	user's organization and role so admin endpoints can authorize without a lookup.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.SessionRequest	true	"Credentials"
//	@Success		200		{object}	membersdk.SessionResponse	"token, token_type, expires_at"
//	@Failure		400		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Router			/v1/sessions [post].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	sess, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		log.Error("login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create session")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, membersdk.SessionResponse{
		Token:          sess.Token,
		TokenType:      "Bearer",
		ExpiresAt:      sess.ExpiresAt,
		UserID:         sess.User.ID,
		OrganizationID: sess.User.OrganizationID,
		Role:           string(sess.User.Role),
	})
}
