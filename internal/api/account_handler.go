package api

import (
	"net/http"
	"time"

	"github.com/Suraj182004/saaraansh/internal/ledger"
	"github.com/Suraj182004/saaraansh/internal/models"
)

type AccountHandler struct {
	ledger *ledger.Ledger
}

func NewAccountHandler(l *ledger.Ledger) *AccountHandler {
	return &AccountHandler{ledger: l}
}

type AccountResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Plan               string     `json:"plan"`
	CreditsUsed        int        `json:"creditsUsed"`
	CreditsLimit       int        `json:"creditsLimit"`
	Remaining          int        `json:"remaining"`
	Unlimited          bool       `json:"unlimited"`
	UsagePercent       int        `json:"usagePercent"`
	NextResetDate      *time.Time `json:"nextResetDate,omitempty"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	HasBillingAccount  bool       `json:"hasBillingAccount"`
}

func newAccountResponse(acct *models.Account) AccountResponse {
	remaining, unlimited := ledger.RemainingCredits(acct)
	return AccountResponse{
		ID:                 acct.ID,
		Email:              acct.Email,
		Plan:               string(acct.Plan),
		CreditsUsed:        acct.CreditsUsed,
		CreditsLimit:       acct.CreditsLimit,
		Remaining:          remaining,
		Unlimited:          unlimited,
		UsagePercent:       ledger.UsagePercent(acct),
		NextResetDate:      acct.NextResetDate,
		SubscriptionStatus: string(acct.SubscriptionStatus),
		HasBillingAccount:  acct.CustomerRef() != "",
	}
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	current, err := h.ledger.Refresh(r.Context(), acct.ID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(current))
}

func (h *AccountHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	acct, ok := ledger.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	hasCredit, err := h.ledger.HasCredit(r.Context(), acct.ID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasCredit": hasCredit})
}
