package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("missing required claims")
)

type TokenVerifier interface {
	VerifyToken(tokenString string) (*User, error)
}

type JWTVerifier struct {
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
	issuer  string
	mu      sync.RWMutex
}

type VerifierOption func(*JWTVerifier)

// WithIssuer rejects tokens whose iss claim differs.
func WithIssuer(issuer string) VerifierOption {
	return func(v *JWTVerifier) {
		v.issuer = issuer
	}
}

func NewJWTVerifier(jwksURL string, opts ...VerifierOption) (*JWTVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	v := &JWTVerifier{
		keyfunc: jwks.Keyfunc,
		jwks:    jwks,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *JWTVerifier) VerifyToken(tokenString string) (*User, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenString, v.keyfunc, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMissingClaims
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMissingClaims)
	}

	// Email is optional; accounts created without it fall back to a directory lookup.
	email, _ := claims["email"].(string)
	verified, _ := claims["email_verified"].(bool)

	return &User{
		ID:            userID,
		Email:         email,
		EmailVerified: verified,
	}, nil
}

func (v *JWTVerifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
