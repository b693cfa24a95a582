// Package middleware provides HTTP middleware that resolves the caller's identity.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const identityKey ContextKey = "identity"

// ErrNoIdentity is returned by GetIdentity for unauthenticated requests.
var ErrNoIdentity = errors.New("identity not found in request context")

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (IdentityGetter, error)
}

// IdentityGetter extracts the caller from validated token claims.
type IdentityGetter interface {
	GetIdentity() types.Identity
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authenticate(validator, r)
			if !ok {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches the identity when the token is valid and otherwise
// passes the request through unauthenticated.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := authenticate(validator, r); ok {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(validator TokenValidator, r *http.Request) (types.Identity, bool) {
	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return types.Identity{}, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		return types.Identity{}, false
	}
	identity := claims.GetIdentity()
	if identity.ClerkUserID == "" {
		return types.Identity{}, false
	}
	return identity, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the authenticated caller from the request context.
func GetIdentity(r *http.Request) (types.Identity, error) {
	identity, ok := r.Context().Value(identityKey).(types.Identity)
	if !ok {
		return types.Identity{}, ErrNoIdentity
	}
	return identity, nil
}

// ClerkUserID returns the caller's external id, or "" when unauthenticated.
func ClerkUserID(r *http.Request) string {
	identity, err := GetIdentity(r)
	if err != nil {
		return ""
	}
	return identity.ClerkUserID
}
