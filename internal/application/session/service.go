package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-auth-api/internal/application/mfa"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/id"
	"github.com/go-auth-api/internal/pkg/password"
	"github.com/go-auth-api/internal/pkg/validate"
)

// AuthResult is what a successful Register or Login hands back to transport.
// When MFAPending is set a code was emailed and no tokens were issued.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	MFAPending   bool
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type refreshLedger interface {
	Issue(ctx context.Context, userID string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type accessSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	users  userStore
	ledger refreshLedger
	signer accessSigner
	mfa    mfa.Service
}

type ServiceDeps struct {
	UserRepo    userStore
	Ledger      refreshLedger
	JWTProvider accessSigner
	MFA         mfa.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:  deps.UserRepo,
		ledger: deps.Ledger,
		signer: deps.JWTProvider,
		mfa:    deps.MFA,
	}
}

// NormalizeEmail is applied to every address before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, domain.Infra("session.hash", err)
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, domain.Infra("session.create_user", err)
	}
	refresh, err := s.ledger.Issue(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	access, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, domain.Infra("session.sign", err)
	}
	return &AuthResult{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, domain.Infra("session.lookup", err)
	}
	ok, err := password.Compare(u.PasswordHash, req.Password)
	if err != nil {
		return nil, domain.Infra("session.compare", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if u.MFAEnabled {
		outcome, err := s.mfa.Handle(ctx, u.UserID, req.MFACode)
		if err != nil {
			return nil, err
		}
		if outcome == mfa.OutcomeChallengeIssued {
			return &AuthResult{User: u, MFAPending: true}, nil
		}
	}

	res := &AuthResult{User: u}
	if req.RememberMe {
		if res.RefreshToken, err = s.ledger.Issue(ctx, u.UserID); err != nil {
			return nil, err
		}
	}
	if res.AccessToken, err = s.signer.Sign(u.UserID); err != nil {
		return nil, domain.Infra("session.sign", err)
	}
	return res, nil
}

// Logout revokes the refresh token if one was presented.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.ledger.Revoke(ctx, refreshToken)
}
