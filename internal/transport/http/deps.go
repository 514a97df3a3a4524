package http

import (
	"context"
	"time"

	"github.com/go-auth-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

// RefreshTokenRepository persists refresh token records.
type RefreshTokenRepository interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	Get(ctx context.Context, token string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	ListByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)
}

// CodeStore holds MFA codes and reset link signatures with a TTL. Take must
// remove and return the value atomically. TakeIfEqual must remove the key only
// while it still holds the given value.
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Take(ctx context.Context, key string) (string, error)
	TakeIfEqual(ctx context.Context, key, value string) error
}
