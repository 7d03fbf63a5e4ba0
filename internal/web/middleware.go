package web

import (
	"context"
	"net/http"

	"github.com/mlakar/zaloga/internal/session"
)

type webContextKey string

const claimsKey webContextKey = "claims"

// RequireSession validates the session cookie and adds the claims to
// the request context, redirecting to /login otherwise.
func RequireSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := session.FromRequest(r, secret)
			if err != nil {
				session.ClearCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the session claims from the request context.
func GetClaims(ctx context.Context) *session.Claims {
	claims, _ := ctx.Value(claimsKey).(*session.Claims)
	return claims
}
