package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Suraj182004/saaraansh/internal/auth"
	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/models"
)

type accountContextKey string

const accountKey accountContextKey = "account"

func WithAccount(ctx context.Context, acct *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, acct)
}

func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	acct, ok := ctx.Value(accountKey).(*models.Account)
	return acct, ok
}

// IdentityEmails prefers the verified email from the token and falls back to
// directory when the token has none.
func IdentityEmails(user *auth.User, directory EmailProvider) EmailProvider {
	return EmailProviderFunc(func(ctx context.Context, identityID string) (string, error) {
		if user.Email != "" && user.EmailVerified {
			return user.Email, nil
		}
		if directory == nil {
			return "", nil
		}
		return directory.VerifiedEmail(ctx, identityID)
	})
}

// Middleware ensures an account exists for the authenticated identity and
// stores it in the request context.
func Middleware(l *Ledger, directory EmailProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.GetUserFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized: identity not found in context")
				return
			}

			acct, err := l.EnsureAccount(r.Context(), user.ID, IdentityEmails(user, directory))
			if err != nil {
				logging.EnrichError(r.Context(), err, "ensure_account")
				if errors.Is(err, ErrEmailTaken) {
					writeError(w, r, http.StatusConflict, "email_in_use", "This email address is already linked to another account")
					return
				}
				if errors.Is(err, ErrIdentityUnavailable) {
					writeError(w, r, http.StatusForbidden, "identity_unavailable", "A verified email address is required")
					return
				}
				writeError(w, r, http.StatusServiceUnavailable, "ledger_unavailable", "Account service unavailable, please retry")
				return
			}

			logging.EnrichAccount(r.Context(), string(acct.Plan), acct.CreditsUsed, acct.CreditsLimit)
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), acct)))
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	body := map[string]string{"error": code, "message": message}
	if traceID := logging.GetTraceID(r.Context()); traceID != "" {
		body["traceId"] = traceID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
