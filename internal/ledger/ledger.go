// Package ledger owns account plans, credit counters and the monthly usage
// window. Resets are lazy: a window that has elapsed is rolled over the next
// time credit is checked or consumed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Suraj182004/saaraansh/internal/models"
)

// EmailProvider looks up the verified email of an identity. It returns an
// empty string or an error when none is available.
type EmailProvider interface {
	VerifiedEmail(ctx context.Context, identityID string) (string, error)
}

type EmailProviderFunc func(ctx context.Context, identityID string) (string, error)

func (f EmailProviderFunc) VerifiedEmail(ctx context.Context, identityID string) (string, error) {
	return f(ctx, identityID)
}

type Ledger struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(repo Repository, opts ...Option) *Ledger {
	l := &Ledger{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithRepository returns a Ledger over repo that shares l's clock. It is how a
// ledger is bound to a transaction.
func (l *Ledger) WithRepository(repo Repository) *Ledger {
	return &Ledger{repo: repo, now: l.now}
}

func nextWindow(from time.Time) time.Time {
	return from.AddDate(0, 1, 0)
}

func (l *Ledger) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	acct, err := l.repo.GetByID(ctx, id)
	return acct, classify("get account", err)
}

// EnsureAccount returns the account for id, creating a free-tier account on
// first sight. Concurrent creators race on the primary key and the loser
// reads the winner's row.
func (l *Ledger) EnsureAccount(ctx context.Context, id string, emails EmailProvider) (*models.Account, error) {
	acct, err := l.repo.GetByID(ctx, id)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, classify("get account", err)
	}

	if emails == nil {
		return nil, ErrIdentityUnavailable
	}
	email, err := emails.VerifiedEmail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrIdentityUnavailable
	}

	now := l.now()
	next := nextWindow(now)
	fresh := &models.Account{
		ID:                 id,
		Email:              email,
		Plan:               models.PlanFree,
		CreditsUsed:        0,
		CreditsLimit:       LimitFor(models.PlanFree),
		LastResetDate:      &now,
		NextResetDate:      &next,
		SubscriptionStatus: models.SubscriptionInactive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := l.repo.CreateIfNotExists(ctx, fresh); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
		}
		return nil, classify("create account", err)
	}

	acct, err = l.repo.GetByID(ctx, id)
	return acct, classify("get account", err)
}

// Refresh applies a due reset and returns the current account state.
func (l *Ledger) Refresh(ctx context.Context, id string) (*models.Account, error) {
	if err := l.resetIfDue(ctx, id); err != nil {
		return nil, err
	}
	return l.GetAccount(ctx, id)
}

func (l *Ledger) HasCredit(ctx context.Context, id string) (bool, error) {
	acct, err := l.Refresh(ctx, id)
	if err != nil {
		return false, err
	}
	if IsUnlimited(acct.Plan) {
		return true, nil
	}
	return acct.CreditsUsed < acct.CreditsLimit, nil
}

// ConsumeCredit debits one credit. The increment happens in storage so
// concurrent debits for one account are never lost, and it is refused with
// ErrCreditsExhausted once a non-pro account has used its limit.
func (l *Ledger) ConsumeCredit(ctx context.Context, id string) error {
	if err := l.resetIfDue(ctx, id); err != nil {
		return err
	}
	return classify("increment credits", l.repo.IncrementCreditsUsed(ctx, id, l.now()))
}

func (l *Ledger) resetIfDue(ctx context.Context, id string) error {
	now := l.now()
	_, err := l.repo.ResetIfDue(ctx, id, now, nextWindow(now))
	return classify("reset credits", err)
}

// SetPlan moves the account to plan, zeroing usage and opening a new window.
// Non-empty refs are merged in; empty refs leave stored values untouched.
func (l *Ledger) SetPlan(ctx context.Context, id string, plan models.Plan, refs BillingRefs) error {
	if _, ok := PlanLimits[plan]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	now := l.now()
	change := PlanChange{
		Plan:      plan,
		Limit:     LimitFor(plan),
		Refs:      refs,
		ResetAt:   now,
		NextReset: nextWindow(now),
	}
	return classify("set plan", l.repo.SetPlan(ctx, id, change))
}

func (l *Ledger) SetSubscriptionStatus(ctx context.Context, id string, status models.SubscriptionStatus) error {
	return classify("set subscription status", l.repo.SetSubscriptionStatus(ctx, id, status, l.now()))
}

func (l *Ledger) FindByBillingCustomerRef(ctx context.Context, customerRef string) (*models.Account, error) {
	if customerRef == "" {
		return nil, ErrNotFound
	}
	acct, err := l.repo.GetByBillingCustomerRef(ctx, customerRef)
	return acct, classify("find account by customer", err)
}

func (l *Ledger) FindByBillingSubscriptionRef(ctx context.Context, subscriptionRef string) (*models.Account, error) {
	if subscriptionRef == "" {
		return nil, ErrNotFound
	}
	acct, err := l.repo.GetByBillingSubscriptionRef(ctx, subscriptionRef)
	return acct, classify("find account by subscription", err)
}

func (l *Ledger) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}
	acct, err := l.repo.GetByEmail(ctx, email)
	return acct, classify("find account by email", err)
}

// BindBillingCustomerRef attaches customerRef to an account that has none.
// Binding the ref the account already carries is a no-op.
func (l *Ledger) BindBillingCustomerRef(ctx context.Context, id, customerRef string) error {
	if customerRef == "" {
		return nil
	}
	return classify("bind customer ref", l.repo.BindBillingCustomerRef(ctx, id, customerRef, l.now()))
}

// classify passes not-found, conflict and exhaustion signals through and folds every other
// storage failure into ErrLedgerUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, passthrough := range []error{ErrNotFound, ErrCustomerRefTaken, ErrCreditsExhausted, ErrEmailTaken, ErrLedgerUnavailable} {
		if errors.Is(err, passthrough) {
			return err
		}
	}
	return fmt.Errorf("%w: failed to %s: %w", ErrLedgerUnavailable, op, err)
}
