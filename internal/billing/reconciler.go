package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/models"
)

type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeFailed     Outcome = "failed"
)

type SubscriptionPrices interface {
	RetrieveSubscriptionPrice(ctx context.Context, subscriptionRef string) (string, error)
}

// Reconciler applies billing events to the ledger. Every transition sets
// state rather than adding to it, so redelivered events converge.
type Reconciler struct {
	ledger *ledger.Ledger
	subs   SubscriptionPrices
	prices *PriceTable
}

func NewReconciler(l *ledger.Ledger, subs SubscriptionPrices, prices *PriceTable) *Reconciler {
	return &Reconciler{ledger: l, subs: subs, prices: prices}
}

// Handle applies ev. An event that matches no account returns
// ErrUnresolvedEvent with OutcomeUnresolved and changes nothing.
func (r *Reconciler) Handle(ctx context.Context, ev Event) (Outcome, error) {
	switch ev.Type {
	case EventCheckoutCompleted:
		return r.checkoutCompleted(ctx, ev)
	case EventSubscriptionUpdated:
		return r.subscriptionUpdated(ctx, ev)
	case EventSubscriptionDeleted:
		return r.subscriptionDeleted(ctx, ev)
	}
	return OutcomeIgnored, nil
}

func (r *Reconciler) checkoutCompleted(ctx context.Context, ev Event) (Outcome, error) {
	acct, err := r.resolveCheckoutAccount(ctx, ev)
	if err != nil {
		return r.unresolved(ev, err)
	}

	if ev.SubscriptionRef == "" {
		logger.Log.Info("checkout completed without subscription", "event_id", ev.ID, "account_id", acct.ID)
		return OutcomeIgnored, nil
	}

	priceRef, err := r.subs.RetrieveSubscriptionPrice(ctx, ev.SubscriptionRef)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to resolve price for subscription %s: %w", ev.SubscriptionRef, err)
	}

	refs := ledger.BillingRefs{SubscriptionRef: ev.SubscriptionRef}
	if acct.CustomerRef() == ev.CustomerRef {
		refs.CustomerRef = ev.CustomerRef
	}
	if err := r.ledger.SetPlan(ctx, acct.ID, r.planFor(ev, priceRef), refs); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to set plan for account %s: %w", acct.ID, err)
	}
	if err := r.ledger.SetSubscriptionStatus(ctx, acct.ID, models.SubscriptionActive); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to activate account %s: %w", acct.ID, err)
	}
	return OutcomeApplied, nil
}

// resolveCheckoutAccount finds the account by customer ref and falls back to
// the checkout email, backfilling the customer ref on that path.
func (r *Reconciler) resolveCheckoutAccount(ctx context.Context, ev Event) (*models.Account, error) {
	acct, err := r.ledger.FindByBillingCustomerRef(ctx, ev.CustomerRef)
	if err == nil {
		return acct, nil
	}
	if !ledger.IsNotFound(err) {
		return nil, err
	}

	acct, err = r.ledger.FindByEmail(ctx, ev.Email)
	if err != nil {
		return nil, err
	}
	if ev.CustomerRef == "" {
		return acct, nil
	}

	err = r.ledger.BindBillingCustomerRef(ctx, acct.ID, ev.CustomerRef)
	switch {
	case err == nil:
		bound := ev.CustomerRef
		acct.BillingCustomerRef = &bound
		logger.Log.Info("backfilled billing customer ref", "event_id", ev.ID, "account_id", acct.ID)
	case errors.Is(err, ledger.ErrCustomerRefTaken):
		logger.Log.Warn("customer ref not backfilled", "event_id", ev.ID, "account_id", acct.ID, "error", err)
	default:
		return nil, err
	}
	return acct, nil
}

func (r *Reconciler) subscriptionUpdated(ctx context.Context, ev Event) (Outcome, error) {
	acct, err := r.ledger.FindByBillingSubscriptionRef(ctx, ev.SubscriptionRef)
	if err != nil {
		return r.unresolved(ev, err)
	}

	priceRef := ev.PriceRef
	if priceRef == "" {
		priceRef, err = r.subs.RetrieveSubscriptionPrice(ctx, ev.SubscriptionRef)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("failed to resolve price for subscription %s: %w", ev.SubscriptionRef, err)
		}
	}

	refs := ledger.BillingRefs{SubscriptionRef: ev.SubscriptionRef}
	if err := r.ledger.SetPlan(ctx, acct.ID, r.planFor(ev, priceRef), refs); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to set plan for account %s: %w", acct.ID, err)
	}
	if ev.Status != "" {
		if err := r.ledger.SetSubscriptionStatus(ctx, acct.ID, models.SubscriptionStatus(ev.Status)); err != nil {
			return OutcomeFailed, fmt.Errorf("failed to set status for account %s: %w", acct.ID, err)
		}
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) subscriptionDeleted(ctx context.Context, ev Event) (Outcome, error) {
	acct, err := r.ledger.FindByBillingSubscriptionRef(ctx, ev.SubscriptionRef)
	if err != nil {
		return r.unresolved(ev, err)
	}

	if err := r.ledger.SetPlan(ctx, acct.ID, models.PlanFree, ledger.BillingRefs{}); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to downgrade account %s: %w", acct.ID, err)
	}
	if err := r.ledger.SetSubscriptionStatus(ctx, acct.ID, models.SubscriptionCanceled); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to cancel account %s: %w", acct.ID, err)
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) planFor(ev Event, priceRef string) models.Plan {
	plan, known := r.prices.PlanForPrice(priceRef)
	if !known {
		logger.Log.Warn("unknown price, defaulting plan", "event_id", ev.ID, "price", priceRef, "plan", plan)
	}
	return plan
}

// unresolved turns a lookup miss into ErrUnresolvedEvent and passes storage
// failures through.
func (r *Reconciler) unresolved(ev Event, err error) (Outcome, error) {
	if ledger.IsNotFound(err) {
		return OutcomeUnresolved, fmt.Errorf("%w: %s %s", ErrUnresolvedEvent, ev.Type, ev.ID)
	}
	return OutcomeFailed, err
}
