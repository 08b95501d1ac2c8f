package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/movielobby/catalog/internal/auth"
)

const identityKey ctxKey = iota + 1

// RequireAuth gates a route behind a valid bearer credential. It is
// applied only to mutating routes at registration time; read routes are
// never gated. On rejection the wrapped handler does not run, so an
// unauthorized request has no side effects.
func RequireAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Missing or malformed Authorization header")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated caller from context.
// The zero Identity is returned for ungated routes.
func GetIdentity(ctx context.Context) auth.Identity {
	if id, ok := ctx.Value(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.Identity{}
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
