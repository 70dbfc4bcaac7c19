package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// webhookBodyLimit caps webhook payloads. Provider events are small; anything
// bigger is junk.
const webhookBodyLimit = 1 << 20

type BillingWebhookHandler struct {
	WebhookService *service.WebhookService
}

// ServeHTTP godoc
//
//	@Summary		Billing Provider Webhook
//	@Description	Apply billing provider notifications (subscription updates, cancellations,
//	@Description	payment failures) to the owning organization. Requests are authenticated by the
//	@Description	provider signature header; unknown events are acknowledged without a change.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	"event processed or acknowledged"
//	@Failure		400	{object}	membersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/webhooks/billing [post].
func (h *BillingWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Could not read payload")
		return
	}

	err = h.WebhookService.HandleBillingWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrWebhookSignature) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_signature", "Webhook signature verification failed")
			return
		}
		// Internal failures get a 500 so the provider retries the event.
		log.Error("billing webhook processing failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process event")
		return
	}

	w.WriteHeader(http.StatusOK)
}
