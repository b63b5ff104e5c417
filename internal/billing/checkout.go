package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/cenkalti/backoff/v5"
)

// Checkout drives the outbound billing flows for an account: binding a
// customer, opening checkout and opening the billing portal.
type Checkout struct {
	provider     Provider
	ledger       *ledger.Ledger
	maxAttempts  int
	initialDelay time.Duration
}

type CheckoutOption func(*Checkout)

// WithRetry bounds checkout-session creation to maxAttempts, waiting
// initialDelay after the first failure and doubling after each later one.
func WithRetry(maxAttempts int, initialDelay time.Duration) CheckoutOption {
	return func(c *Checkout) {
		c.maxAttempts = maxAttempts
		c.initialDelay = initialDelay
	}
}

func NewCheckout(provider Provider, l *ledger.Ledger, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		provider:     provider,
		ledger:       l,
		maxAttempts:  3,
		initialDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// EnsureCustomer returns the account's billing customer, reusing a customer
// registered under the account email before creating a new one.
func (c *Checkout) EnsureCustomer(ctx context.Context, acct *models.Account) (string, error) {
	if ref := acct.CustomerRef(); ref != "" {
		return ref, nil
	}

	customerRef, err := c.provider.FindCustomerByEmail(ctx, acct.Email)
	if err != nil {
		return "", err
	}
	if customerRef == "" {
		customerRef, err = c.provider.CreateCustomer(ctx, acct.ID, acct.Email)
		if err != nil {
			return "", err
		}
	}

	if err := c.ledger.BindBillingCustomerRef(ctx, acct.ID, customerRef); err != nil {
		if !errors.Is(err, ledger.ErrCustomerRefTaken) {
			return "", fmt.Errorf("failed to bind customer %s: %w", customerRef, err)
		}
		// Lost a race with another binder; use whatever is stored now.
		current, getErr := c.ledger.GetAccount(ctx, acct.ID)
		if getErr != nil {
			return "", getErr
		}
		if current.CustomerRef() == "" {
			return "", err
		}
		customerRef = current.CustomerRef()
	}
	return customerRef, nil
}

func (c *Checkout) StartCheckout(ctx context.Context, acct *models.Account, plan models.Plan) (*CheckoutSession, error) {
	if plan != models.PlanBasic && plan != models.PlanPro {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotPurchasable, plan)
	}

	customerRef, err := c.EnsureCustomer(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure customer: %w", err)
	}

	return c.createSessionWithRetry(ctx, acct.ID, customerRef, plan)
}

func (c *Checkout) createSessionWithRetry(ctx context.Context, accountID, customerRef string, plan models.Plan) (*CheckoutSession, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0

	attempt := 0
	operation := func() (*CheckoutSession, error) {
		attempt++
		session, err := c.provider.CreateCheckoutSession(ctx, accountID, customerRef, plan)
		if err != nil && !isRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return session, err
	}

	session, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Log.Warn("checkout session creation failed, retrying",
				"account_id", accountID, "attempt", attempt, "wait", wait.String(), "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session after %d attempts: %w", attempt, err)
	}
	return session, nil
}

func (c *Checkout) OpenPortal(ctx context.Context, acct *models.Account) (string, error) {
	customerRef := acct.CustomerRef()
	if customerRef == "" {
		return "", ErrNoCustomer
	}
	return c.provider.CreatePortalSession(ctx, customerRef)
}
