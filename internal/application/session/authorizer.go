package session

import (
	"context"
	"errors"

	"github.com/go-auth-api/internal/domain"
)

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Authorizer answers "does this user hold role". It never writes.
type Authorizer struct {
	users           userGetter
	requireAdminMFA bool
}

// NewAuthorizer builds an Authorizer. With requireAdminMFA set, admin access
// additionally demands that the admin has MFA enabled.
func NewAuthorizer(users userGetter, requireAdminMFA bool) *Authorizer {
	return &Authorizer{users: users, requireAdminMFA: requireAdminMFA}
}

func (a *Authorizer) RequireRole(ctx context.Context, userID, role string) error {
	u, err := a.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbiddenRole
	}
	if err != nil {
		return domain.Infra("session.role_lookup", err)
	}
	if u.Role != role {
		return domain.ErrForbiddenRole
	}
	if a.requireAdminMFA && role == domain.RoleAdmin && !u.MFAEnabled {
		return domain.ErrMFARequiredForAdmin
	}
	return nil
}
