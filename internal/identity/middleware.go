package identity

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

type resolved struct {
	ownerID string
	guest   bool
}

// Middleware resolves the request's owner id from a bearer token. Absent or
// invalid tokens fall back to a freshly minted guest id rather than failing
// the request.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolved{ownerID: NewGuestID(), guest: true}

			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
				if claims, err := parseToken(secret, token); err == nil && claims.OwnerID != "" {
					id = resolved{ownerID: claims.OwnerID, guest: claims.Guest}
				}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Owner returns the owner id resolved for this request, or a fresh guest id
// when the middleware did not run (direct handler tests).
func Owner(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(resolved); ok {
		return id.ownerID
	}
	return NewGuestID()
}

// IsGuest reports whether the request's owner id is ephemeral.
func IsGuest(ctx context.Context) bool {
	if id, ok := ctx.Value(ctxKey{}).(resolved); ok {
		return id.guest
	}
	return true
}
