package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/billing"
	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/logger"
	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/metrics"
	"github.com/Suraj182004/saaraansh/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v84"
)

const maxWebhookBodyBytes = 64 << 10

type CheckoutService interface {
	StartCheckout(ctx context.Context, acct *models.Account, plan models.Plan) (*billing.CheckoutSession, error)
	OpenPortal(ctx context.Context, acct *models.Account) (string, error)
}

type WebhookVerifier interface {
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)
}

type EventHandler interface {
	Handle(ctx context.Context, ev billing.Event) (billing.Outcome, error)
}

type BillingHandler struct {
	checkout   CheckoutService
	verifier   WebhookVerifier
	reconciler EventHandler
	validate   *validator.Validate
}

func NewBillingHandler(checkout CheckoutService, verifier WebhookVerifier, reconciler EventHandler) *BillingHandler {
	return &BillingHandler{
		checkout:   checkout,
		verifier:   verifier,
		reconciler: reconciler,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basic pro"`
}

func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CheckoutRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	session, err := h.checkout.StartCheckout(r.Context(), acct, models.Plan(req.Plan))
	if err != nil {
		logging.EnrichError(r.Context(), err, "checkout")
		if errors.Is(err, billing.ErrPlanNotPurchasable) {
			writeError(w, r, http.StatusBadRequest, "invalid_plan", "This plan cannot be purchased")
			return
		}
		writeError(w, r, http.StatusBadGateway, "checkout_unavailable", "Could not start checkout, please try again")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	url, err := h.checkout.OpenPortal(r.Context(), acct)
	if err != nil {
		logging.EnrichError(r.Context(), err, "billing_portal")
		if errors.Is(err, billing.ErrNoCustomer) {
			writeError(w, r, http.StatusBadRequest, "no_billing_account", "No billing account exists yet. Subscribe to a plan first.")
			return
		}
		writeError(w, r, http.StatusBadGateway, "portal_unavailable", "Could not open the billing portal, please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook verifies and applies a billing-provider event. Only a bad
// signature is rejected; once verified the delivery is always acknowledged
// so the provider does not redeliver events that can never apply.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		logging.EnrichError(r.Context(), err, "webhook_read")
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Failed to read body")
		return
	}

	stripeEvent, err := h.verifier.VerifyWebhookSignature(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		logging.EnrichError(r.Context(), err, "webhook_verify")
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		writeError(w, r, http.StatusBadRequest, "invalid_signature", "Invalid signature")
		return
	}
	logging.EnrichBillingEvent(r.Context(), stripeEvent.ID, string(stripeEvent.Type))

	outcome := h.apply(r.Context(), stripeEvent)
	logging.EnrichBillingOutcome(r.Context(), string(outcome))
	metrics.WebhookEventsTotal.WithLabelValues(string(stripeEvent.Type), string(outcome)).Inc()

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *BillingHandler) apply(ctx context.Context, stripeEvent *stripe.Event) billing.Outcome {
	ev, handled, err := billing.EventFromStripe(stripeEvent)
	if err != nil {
		logging.EnrichError(ctx, err, "webhook_parse")
		return billing.OutcomeFailed
	}
	if !handled {
		return billing.OutcomeIgnored
	}

	outcome, err := h.reconciler.Handle(ctx, ev)
	switch {
	case errors.Is(err, billing.ErrUnresolvedEvent):
		logger.Log.Warn("billing event matched no account", "event_id", ev.ID, "type", ev.Type)
	case err != nil:
		logging.EnrichError(ctx, err, "webhook_reconcile")
	}
	return outcome
}
