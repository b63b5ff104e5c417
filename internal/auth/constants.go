package auth

type contextKey string

const (
	AccessTokenCookieName = "accessToken"

	UserContextKey contextKey = "user"
)
