package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/simplereimbursement/membership/internal/membership/billing"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/slogx"
)

// ErrWebhookSignature is returned when the provider signature on a webhook
// payload does not verify.
var ErrWebhookSignature = errors.New("webhook signature verification failed")

// WebhookService applies billing-provider notifications to organizations.
type WebhookService struct {
	Store   store.Store
	Billing billing.Provider
}

// HandleBillingWebhook verifies and applies a raw webhook payload.
// Unknown event types and unknown subscriptions are acknowledged without a
// state change so the provider stops retrying them.
func (s *WebhookService) HandleBillingWebhook(ctx context.Context, payload []byte, signature string) error {
	log := slogx.FromContext(ctx)

	event, err := s.Billing.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			log.Warn("rejected billing webhook with bad signature")
			return ErrWebhookSignature
		}
		if errors.Is(err, billing.ErrUnhandledEvent) {
			log.Debug("ignoring unhandled billing event")
			return nil
		}
		return err
	}

	if event.SubscriptionID == "" {
		log.Debug("billing event without subscription id", slog.String("type", event.Type))
		return nil
	}

	org, err := s.Store.Organizations().GetOrganizationBySubscriptionID(ctx, event.SubscriptionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("billing event for unknown subscription",
				slog.String("subscription_id", event.SubscriptionID),
			)
			return nil
		}
		return err
	}

	if err := s.Store.Organizations().UpdateSubscriptionStatus(ctx, org.ID, event.Status); err != nil {
		return err
	}

	log.Info("subscription status updated",
		slog.String("org_id", org.ID),
		slog.String("type", event.Type),
		slog.String("status", string(event.Status)),
	)
	return nil
}
