package middleware

import (
	"context"
	"net/http"

	"github.com/go-auth-api/internal/domain"
)

type roleChecker interface {
	RequireRole(ctx context.Context, userID, role string) error
}

// RequireRole allows the request through only when the authenticated caller
// holds role. It must run after Authenticate.
func RequireRole(checker roleChecker, role string, errs *ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				errs.Write(w, r, domain.ErrMissingCredentials)
				return
			}
			if err := checker.RequireRole(r.Context(), id.UserID, role); err != nil {
				errs.Write(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
