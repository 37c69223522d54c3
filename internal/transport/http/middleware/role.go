package middleware

import (
	"net/http"
	"slices"

	"github.com/go-office-api/internal/domain"
)

// RequireRole returns middleware that allows access only to callers whose JWT
// role is one of allowedRoles. The role in the token is the one current at
// sign-in; services still re-check roles against the directory where it matters.
func RequireRole(allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !slices.Contains(allowedRoles, claims.Role) {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
