package middleware

import (
	"context"
	"net/http"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/domain"
)

type identityKey struct{}

type sessionResolver interface {
	Resolve(ctx context.Context, c session.Credentials) (*session.Resolution, error)
}

// Authenticate resolves the caller before next runs. When the access token had
// to be reissued from the refresh token, the new one is set as a cookie on the
// response.
func Authenticate(resolver sessionResolver, cookies Cookies, errs *ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := resolver.Resolve(r.Context(), CredentialsFrom(r))
			if err != nil {
				errs.Write(w, r, err)
				return
			}
			if res.AccessToken != "" {
				cookies.SetAccess(w, res.AccessToken)
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.Identity)))
		})
	}
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
