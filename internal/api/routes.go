package api

import (
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/metrics"
	"github.com/gorilla/mux"
)

type Handlers struct {
	Account   *AccountHandler
	Summaries *SummaryHandler
	Uploads   *UploadHandler
	Billing   *BillingHandler
}

// SetupRoutes mounts the public API. requireAuth authenticates the caller
// and requireAccount loads their ledger account; the billing webhook and
// the operational endpoints sit outside both.
func SetupRoutes(h *Handlers, requireAuth, requireAccount mux.MiddlewareFunc, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/healthz", Healthz).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/api/v1/billing/webhook", h.Billing.Webhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(requireAuth)
	api.Use(requireAccount)

	api.HandleFunc("/account", h.Account.GetAccount).Methods("GET")
	api.HandleFunc("/account/credits", h.Account.GetCredits).Methods("GET")

	api.HandleFunc("/uploads/signed-url", h.Uploads.SignedURL).Methods("POST")

	api.HandleFunc("/summaries", h.Summaries.Upload).Methods("POST")
	api.HandleFunc("/summaries/ingest", h.Summaries.Ingest).Methods("POST")
	api.HandleFunc("/summaries", h.Summaries.List).Methods("GET")
	api.HandleFunc("/summaries/{id}", h.Summaries.Get).Methods("GET")

	api.HandleFunc("/billing/checkout", h.Billing.Checkout).Methods("POST")
	api.HandleFunc("/billing/portal", h.Billing.Portal).Methods("POST")

	return CORSMiddleware(allowedOrigins).Handler(r)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
