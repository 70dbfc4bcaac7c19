package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/simplereimbursement/membership/internal/membership/domain"
)

// StripeProvider implements Provider against the Stripe API. Each seat class
// maps to a recurring price; seat totals become item quantities on a single
// subscription per organization.
type StripeProvider struct {
	api           *client.API
	webhookSecret string

	adminPriceID string
	userPriceID  string
}

func NewStripeProvider(apiKey, webhookSecret, adminPriceID, userPriceID string) *StripeProvider {
	return &StripeProvider{
		api:           client.New(apiKey, nil),
		webhookSecret: webhookSecret,
		adminPriceID:  adminPriceID,
		userPriceID:   userPriceID,
	}
}

func (p *StripeProvider) priceID(class domain.SeatClass) string {
	if class == domain.SeatClassAdmin {
		return p.adminPriceID
	}
	return p.userPriceID
}

func (p *StripeProvider) CreateSubscription(ctx context.Context, orgName, billingEmail, period string, licenses domain.Licenses) (Subscription, error) {
	customerParams := &stripe.CustomerParams{
		Name:  stripe.String(orgName),
		Email: stripe.String(billingEmail),
	}
	customerParams.Context = ctx
	cust, err := p.api.Customers.New(customerParams)
	if err != nil {
		return Subscription{}, fmt.Errorf("billing: create customer: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(cust.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(p.adminPriceID),
				Quantity: stripe.Int64(int64(licenses.Admin.Total)),
			},
			{
				Price:    stripe.String(p.userPriceID),
				Quantity: stripe.Int64(int64(licenses.User.Total)),
			},
		},
	}
	subParams.Context = ctx
	subParams.AddMetadata("billing_period", period)
	sub, err := p.api.Subscriptions.New(subParams)
	if err != nil {
		return Subscription{}, fmt.Errorf("billing: create subscription: %w", err)
	}

	return Subscription{
		CustomerID:     cust.ID,
		SubscriptionID: sub.ID,
		Status:         mapSubscriptionStatus(sub.Status),
	}, nil
}

func (p *StripeProvider) UpdateSeatQuantity(ctx context.Context, change SeatChange) error {
	getParams := &stripe.SubscriptionParams{}
	getParams.Context = ctx
	sub, err := p.api.Subscriptions.Get(change.SubscriptionID, getParams)
	if err != nil {
		return fmt.Errorf("billing: fetch subscription: %w", err)
	}

	priceID := p.priceID(change.Class)
	for _, item := range sub.Items.Data {
		if item.Price == nil || item.Price.ID != priceID {
			continue
		}
		itemParams := &stripe.SubscriptionItemParams{
			Quantity: stripe.Int64(int64(change.Total)),
		}
		itemParams.Context = ctx
		if _, err := p.api.SubscriptionItems.Update(item.ID, itemParams); err != nil {
			return fmt.Errorf("billing: update quantity: %w", err)
		}
		return nil
	}
	return fmt.Errorf("billing: subscription %s has no item for price %s", change.SubscriptionID, priceID)
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return Event{}, err
		}
		return Event{
			Type:           EventSubscriptionUpdated,
			SubscriptionID: sub.ID,
			Status:         mapSubscriptionStatus(sub.Status),
		}, nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return Event{}, err
		}
		return Event{
			Type:           EventSubscriptionDeleted,
			SubscriptionID: sub.ID,
			Status:         domain.SubscriptionCanceled,
		}, nil

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return Event{}, err
		}
		evt := Event{Type: EventPaymentFailed, Status: domain.SubscriptionPastDue}
		if inv.Subscription != nil {
			evt.SubscriptionID = inv.Subscription.ID
		}
		return evt, nil
	}

	return Event{}, ErrUnhandledEvent
}

func mapSubscriptionStatus(s stripe.SubscriptionStatus) domain.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return domain.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return domain.SubscriptionPastDue
	default:
		return domain.SubscriptionCanceled
	}
}
