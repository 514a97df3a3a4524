package refresh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-auth-api/internal/domain"
	pkgtoken "github.com/go-auth-api/internal/pkg/token"
)

// Service is the refresh token ledger.
type Service interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	ListForUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)
	RevokeAllForUser(ctx context.Context, userID string) error
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.RefreshToken) error
	Get(ctx context.Context, token string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	ListByUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)
}

type service struct {
	repo     tokenStore
	lifetime time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

type ServiceDeps struct {
	TokenRepo tokenStore
	Lifetime  time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     deps.TokenRepo,
		lifetime: deps.Lifetime,
		now:      now,
		newToken: pkgtoken.NewRefreshToken,
	}
}

// issueAttempts bounds retries on the astronomically unlikely token collision.
const issueAttempts = 3

func (s *service) Issue(ctx context.Context, userID string) (string, error) {
	for i := 0; i < issueAttempts; i++ {
		tok, err := s.newToken()
		if err != nil {
			return "", domain.Infra("refresh.issue", err)
		}
		now := s.now().UTC()
		err = s.repo.Put(ctx, &domain.RefreshToken{
			Token:     tok,
			UserID:    userID,
			ExpiresAt: now.Add(s.lifetime),
			CreatedAt: now,
		})
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return "", domain.Infra("refresh.issue", err)
		}
		return tok, nil
	}
	return "", domain.Infra("refresh.issue", errors.New("could not allocate a unique refresh token"))
}

// Verify returns the owner of a live token. An expired record is deleted on
// sight.
func (s *service) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrRefreshTokenInvalid
	}
	rt, err := s.repo.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", domain.Infra("refresh.verify", err)
	}
	if rt.Expired(s.now()) {
		if err := s.repo.Delete(ctx, token); err != nil {
			slog.Warn("failed to delete expired refresh token", "user_id", rt.UserID, "err", err)
		}
		return "", domain.ErrRefreshTokenInvalid
	}
	return rt.UserID, nil
}

func (s *service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return domain.Infra("refresh.revoke", s.repo.Delete(ctx, token))
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	tokens, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Infra("refresh.list", err)
	}
	return tokens, nil
}

// RevokeAllForUser deletes every token the user holds. Failures are collected
// so one bad delete does not leave the rest alive.
func (s *service) RevokeAllForUser(ctx context.Context, userID string) error {
	tokens, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.Infra("refresh.revoke_all", err)
	}
	var errs []error
	for _, t := range tokens {
		if err := s.repo.Delete(ctx, t.Token); err != nil {
			errs = append(errs, err)
		}
	}
	return domain.Infra("refresh.revoke_all", errors.Join(errs...))
}
