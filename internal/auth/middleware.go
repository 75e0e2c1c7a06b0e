package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
//
// context.WithValue keys are compared by type AND value; using a private
// type means no other package can read or shadow the identity we store —
// only code in this package can mint a key of type contextKey.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// It is the single enforcement point for the /jobs API: a handler behind
// this middleware can assume a verified Identity is in the context.
//
// The token travels in the standard header:
//
//	Authorization: Bearer <token>
//
// Missing header, anything other than the two-part "Bearer <token>" shape,
// an empty token, and any validation failure (bad signature, expired) all
// short-circuit with 401 before the handler runs. The response body doesn't
// say which check failed; the distinction is nothing an API client can act
// on and expiry-vs-tamper detail only helps an attacker.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			id, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			// Attach the identity for the lifetime of this request only.
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by RequireAuth.
//
// Returns (zero, false) if the request never passed through the middleware.
// On a protected route the second return is always true.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// bearerToken extracts the token from the Authorization header.
// Returns ("", false) unless the header is exactly "Bearer <non-empty>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
