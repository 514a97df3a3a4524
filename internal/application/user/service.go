package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-auth-api/internal/application/mfa"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/password"
	"github.com/go-auth-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldMFAEnabled   = "mfa_enabled"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	ListSessions(ctx context.Context, userID string) ([]domain.RefreshToken, error)
	RevokeSessions(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type refreshLedger interface {
	ListForUser(ctx context.Context, userID string) ([]domain.RefreshToken, error)
	RevokeAllForUser(ctx context.Context, userID string) error
}

type service struct {
	repo   userStore
	ledger refreshLedger
	mfa    mfa.Service
}

type ServiceDeps struct {
	UserRepo userStore
	Ledger   refreshLedger
	MFA      mfa.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, ledger: deps.Ledger, mfa: deps.MFA}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.Infra("user.get", err)
	}
	return u, nil
}

// Update applies the requested changes. Toggling MFA in either direction
// needs a verified code; without one a code is emailed and nothing changes.
func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if req.Username == nil && req.Password == nil && req.EnableMFA == nil {
		return nil, domain.BadRequest("A change is required but no changes were provided.")
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.EnableMFA != nil && *req.EnableMFA != u.MFAEnabled {
		outcome, err := s.mfa.Handle(ctx, userID, req.MFACode)
		if err != nil {
			return nil, err
		}
		if outcome == mfa.OutcomeChallengeIssued {
			return nil, domain.ErrMFARequired
		}
		updates[fieldMFAEnabled] = *req.EnableMFA
	}
	if req.Username != nil {
		updates[fieldUsername] = *req.Username
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, domain.Infra("user.hash", err)
		}
		updates[fieldPasswordHash] = hash
	}
	if len(updates) == 0 {
		return u, nil
	}

	updated, err := s.repo.Update(ctx, userID, updates)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.Infra("user.update", err)
	}
	return updated, nil
}

// Delete revokes the user's refresh tokens before removing the account, so a
// half-finished delete never leaves live sessions for a missing user.
func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.ledger.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return domain.Infra("user.delete", err)
}

func (s *service) ListSessions(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.ListForUser(ctx, userID)
}

func (s *service) RevokeSessions(ctx context.Context, userID string) error {
	return s.ledger.RevokeAllForUser(ctx, userID)
}
