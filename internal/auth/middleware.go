package auth

import (
	"net/http"
	"strings"

	"github.com/Suraj182004/saaraansh/internal/logging"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	unauthorizedMessage = "Unauthorized"
	invalidTokenMessage = "Invalid token"
)

type Middleware struct {
	verifier TokenVerifier
}

func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{
		verifier: verifier,
	}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := tokenFromRequest(r)
		if !ok {
			writeJSONError(w, r, http.StatusUnauthorized, "unauthorized", unauthorizedMessage)
			return
		}

		user, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			logging.EnrichError(r.Context(), err, "auth")
			writeJSONError(w, r, http.StatusUnauthorized, "invalid_token", invalidTokenMessage)
			return
		}

		logging.EnrichUser(r.Context(), user.ID, user.Email)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get(authorizationHeader); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		return token, token != ""
	}
	if cookie, err := r.Cookie(AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
