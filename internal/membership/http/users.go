package http

import (
	"errors"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

type UserListHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		List Organization Members
//	@Description	List all members of the caller's organization, including soft-disabled ones.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	membersdk.ListUsersResponse	"users"
//	@Failure		401	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/organizations/users [get].
func (h *UserListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID := httpx.OrgIDFromCtx(ctx)
	if orgID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	users, err := h.UserService.ListByOrganization(ctx, orgID)
	if err != nil {
		log.Error("failed to list users", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list users")
		return
	}

	resp := membersdk.ListUsersResponse{Users: make([]membersdk.User, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toSDKUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

type UserRemoveHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Remove Organization Member
//	@Description	Soft-disable a member and return their seat to the pool. The user row is kept so
//	@Description	expense history stays intact; admins cannot remove their own account.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"user removed"
//	@Failure		400	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [delete].
func (h *UserRemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID := httpx.UserIDFromCtx(ctx)
	if actorID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	err := h.UserService.RemoveUser(ctx, actorID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, service.ErrUnauthorized):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Only admins of the user's organization can remove members")
		case errors.Is(err, service.ErrCannotRemoveSelf):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "You cannot remove your own account")
		default:
			log.Error("user removal failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to remove user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
