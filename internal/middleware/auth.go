package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/http/respond"
)

const identityKey contextKey = "identity"

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token and stores the verified identity in the request context.
func RequireBearer(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			id, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				msg := "invalid token"
				if auth.IsExpiredError(err) {
					msg = "token expired"
				}
				respond.Error(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// IdentityFrom returns the identity stored by RequireBearer.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
