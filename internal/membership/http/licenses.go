package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/domain"
	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/membersdk"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

type LicenseGetHandler struct {
	LicenseService *service.LicenseService
}

// ServeHTTP godoc
//
//	@Summary		Get Seat Ledger
//	@Description	Return the caller organization's per-class seat totals and usage.
//	@Tags			Licenses
//	@Produce		json
//	@Success		200	{object}	membersdk.Licenses		"admin, user"
//	@Failure		401	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/organizations/licenses [get].
func (h *LicenseGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgID := httpx.OrgIDFromCtx(ctx)
	if orgID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	licenses, err := h.LicenseService.AvailableSeats(ctx, orgID)
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Organization not found")
			return
		}
		log.Error("seat ledger read failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to read seat ledger")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSDKLicenses(licenses))
}

type LicenseUpdateHandler struct {
	LicenseService *service.LicenseService
}

// ServeHTTP godoc
//
//	@Summary		Update Seat Totals
//	@Description	Change the purchased seat totals for the caller's organization. Totals may grow
//	@Description	freely but can only shrink down to the number of seats currently in use. The new
//	@Description	quantities are pushed to the billing subscription.
//	@Tags			Licenses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.UpdateLicensesRequest	true	"New totals; omitted classes are unchanged"
//	@Success		200		{object}	membersdk.Licenses				"admin, user"
//	@Failure		400		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/organizations/licenses [put].
func (h *LicenseUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req membersdk.UpdateLicensesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.AdminTotal == nil && req.UserTotal == nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "At least one seat total is required")
		return
	}
	if (req.AdminTotal != nil && *req.AdminTotal < 0) || (req.UserTotal != nil && *req.UserTotal < 0) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Seat totals cannot be negative")
		return
	}

	orgID := httpx.OrgIDFromCtx(ctx)
	if orgID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	totals := map[domain.SeatClass]int{}
	if req.AdminTotal != nil {
		totals[domain.SeatClassAdmin] = *req.AdminTotal
	}
	if req.UserTotal != nil {
		totals[domain.SeatClassUser] = *req.UserTotal
	}

	licenses, err := h.LicenseService.UpdateSeatTotals(ctx, orgID, totals)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeatTotalTooLow):
			httpx.WriteError(w, http.StatusBadRequest, "seats_in_use", "New total is below the seats currently in use")
		case errors.Is(err, service.ErrOrganizationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Organization not found")
		default:
			log.Error("seat total update failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update seat totals")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSDKLicenses(licenses))
}
