package billing

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
)

// Event is a billing-provider notification reduced to the fields the
// reconciler acts on.
type Event struct {
	ID              string
	Type            EventType
	CustomerRef     string
	SubscriptionRef string
	Email           string
	PriceRef        string
	Status          string
}

// EventFromStripe translates a verified Stripe event. The boolean is false
// for event types this service does not handle.
func EventFromStripe(event *stripe.Event) (Event, bool, error) {
	switch event.Type {
	case "checkout.session.completed":
		session, err := parseEventData[checkoutSession](event)
		if err != nil {
			return Event{}, false, fmt.Errorf("failed to parse checkout session: %w", err)
		}
		email := session.CustomerEmail
		if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
			email = session.CustomerDetails.Email
		}
		return Event{
			ID:              event.ID,
			Type:            EventCheckoutCompleted,
			CustomerRef:     session.Customer,
			SubscriptionRef: session.Subscription,
			Email:           email,
		}, true, nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		sub, err := parseEventData[subscriptionEvent](event)
		if err != nil {
			return Event{}, false, fmt.Errorf("failed to parse subscription: %w", err)
		}
		ev := Event{
			ID:              event.ID,
			Type:            EventSubscriptionUpdated,
			CustomerRef:     sub.Customer,
			SubscriptionRef: sub.ID,
			PriceRef:        sub.firstPriceID(),
			Status:          sub.Status,
		}
		if event.Type == "customer.subscription.deleted" {
			ev.Type = EventSubscriptionDeleted
		}
		return ev, true, nil
	}
	return Event{}, false, nil
}

func parseEventData[T any](event *stripe.Event) (*T, error) {
	if event.Data == nil {
		return nil, fmt.Errorf("event %s has no data", event.ID)
	}
	var data T
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

type checkoutSession struct {
	ID              string `json:"id"`
	Customer        string `json:"customer"`
	Subscription    string `json:"subscription"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

type subscriptionEvent struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

func (s *subscriptionEvent) firstPriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}
