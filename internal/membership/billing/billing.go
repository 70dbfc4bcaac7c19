// Package billing abstracts the payment provider behind a small interface so
// the membership services never talk to Stripe directly. The stripe driver is
// the production implementation; Noop serves tests and self-hosted installs.
package billing

import (
	"context"
	"errors"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

var (
	ErrInvalidSignature = errors.New("billing: invalid webhook signature")
	ErrUnhandledEvent   = errors.New("billing: unhandled event type")
)

// Subscription describes the provider-side subscription backing an
// organization's license counts.
type Subscription struct {
	CustomerID     string
	SubscriptionID string
	Status         domain.SubscriptionStatus
}

// SeatChange is sent to the provider when an admin adjusts seat totals so
// invoicing follows the license ledger.
type SeatChange struct {
	SubscriptionID string
	Class          domain.SeatClass
	Total          int
}

// Event is a provider webhook notification already verified and decoded.
type Event struct {
	Type           string
	SubscriptionID string
	Status         domain.SubscriptionStatus
}

// Event types surfaced to the webhook service.
const (
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
	EventPaymentFailed       = "payment.failed"
)

// Provider is the billing backend.
type Provider interface {
	// CreateSubscription provisions a customer and subscription for a new
	// organization with the given initial seat totals.
	CreateSubscription(ctx context.Context, orgName, billingEmail, period string, licenses domain.Licenses) (Subscription, error)

	// UpdateSeatQuantity pushes a seat-total change to the provider.
	UpdateSeatQuantity(ctx context.Context, change SeatChange) error

	// ParseWebhook verifies the webhook signature and decodes the payload
	// into an Event. Unknown event types return ErrUnhandledEvent.
	ParseWebhook(payload []byte, signature string) (Event, error)
}
