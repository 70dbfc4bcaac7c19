package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

// Noop is a billing provider that accepts everything and invoices nothing.
// Used by tests and installs that manage licensing out of band.
type Noop struct{}

func (Noop) CreateSubscription(ctx context.Context, orgName, billingEmail, period string, licenses domain.Licenses) (Subscription, error) {
	return Subscription{
		CustomerID:     "cus_" + uuid.NewString(),
		SubscriptionID: "sub_" + uuid.NewString(),
		Status:         domain.SubscriptionActive,
	}, nil
}

func (Noop) UpdateSeatQuantity(ctx context.Context, change SeatChange) error { return nil }

func (Noop) ParseWebhook(payload []byte, signature string) (Event, error) {
	return Event{}, ErrUnhandledEvent
}
