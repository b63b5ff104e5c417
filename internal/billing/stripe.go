package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Provider is the subset of the billing provider used by this service.
type Provider interface {
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreateCustomer(ctx context.Context, accountID, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, accountID, customerRef string, plan models.Plan) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerRef string) (string, error)
	RetrieveSubscriptionPrice(ctx context.Context, subscriptionRef string) (string, error)
}

type Billing struct {
	sc            *stripe.Client
	webhookSecret string
	prices        *PriceTable
	appBaseURL    string
}

func NewBilling(secretKey, webhookSecret, appBaseURL string, prices *PriceTable) *Billing {
	return &Billing{
		sc:            stripe.NewClient(secretKey),
		webhookSecret: webhookSecret,
		prices:        prices,
		appBaseURL:    appBaseURL,
	}
}

// FindCustomerByEmail returns the first customer registered with email, or ""
// when there is none.
func (b *Billing) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)
	for customer, err := range b.sc.V1Customers.List(ctx, params) {
		if err != nil {
			return "", fmt.Errorf("failed to list customers: %w", err)
		}
		return customer.ID, nil
	}
	return "", nil
}

func (b *Billing) CreateCustomer(ctx context.Context, accountID, email string) (string, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"account_id": accountID},
	}
	customer, err := b.sc.V1Customers.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return customer.ID, nil
}

func (b *Billing) CreateCheckoutSession(ctx context.Context, accountID, customerRef string, plan models.Plan) (*CheckoutSession, error) {
	priceID, err := b.prices.PriceForPlan(plan)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"account_id": accountID,
		"plan":       string(plan),
	}
	params := &stripe.CheckoutSessionCreateParams{
		Customer: stripe.String(customerRef),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(b.appBaseURL + "/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(b.appBaseURL + "/dashboard?checkout=cancelled"),
		Metadata:   metadata,
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	session, err := b.sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (b *Billing) CreatePortalSession(ctx context.Context, customerRef string) (string, error) {
	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerRef),
		ReturnURL: stripe.String(b.appBaseURL + "/dashboard"),
	}
	session, err := b.sc.V1BillingPortalSessions.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}
	return session.URL, nil
}

// RetrieveSubscriptionPrice returns the price id of the subscription's first item.
func (b *Billing) RetrieveSubscriptionPrice(ctx context.Context, subscriptionRef string) (string, error) {
	sub, err := b.sc.V1Subscriptions.Retrieve(ctx, subscriptionRef, nil)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionRef, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return "", fmt.Errorf("subscription %s has no priced items", subscriptionRef)
	}
	return sub.Items.Data[0].Price.ID, nil
}

func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	return VerifyWebhookSignature(payload, signature, b.webhookSecret)
}

func VerifyWebhookSignature(payload []byte, signature, secret string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookVerification, err)
	}
	return &event, nil
}

// isRetryable reports whether a provider error may succeed on a later attempt.
// Client errors other than rate limiting are final.
func isRetryable(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code := stripeErr.HTTPStatusCode
		if code == http.StatusTooManyRequests || code == http.StatusConflict {
			return true
		}
		return code == 0 || code >= http.StatusInternalServerError
	}
	return !errors.Is(err, ErrPlanNotPurchasable)
}
