package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/metrics"
	"github.com/go-auth-api/internal/pkg/password"
	"github.com/go-auth-api/internal/pkg/validate"
	"github.com/google/uuid"
)

// ResponseMessage is returned for every initiation request, whether or not
// the address belongs to an account.
const ResponseMessage = "If the email is registered, a reset link has been sent."

type Service interface {
	Initiate(ctx context.Context, email string) error
	// Redeem consumes the link and returns the user it was issued to.
	Redeem(ctx context.Context, signature string) (string, error)
	ResetPassword(ctx context.Context, signature, newPassword string) error
}

type codeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error)
}

type mailer interface {
	SendEmail(ctx context.Context, to, from, subject, body string) error
}

type service struct {
	codes        codeStore
	users        userStore
	mailer       mailer
	from         string
	ttl          time.Duration
	baseURL      string
	metrics      *metrics.Metrics
	newSignature func() string
}

type ServiceDeps struct {
	CodeStore codeStore
	UserRepo  userStore
	Mailer    mailer
	From      string
	LinkTTL   time.Duration
	// ResetURL is the page the emailed link points at; the signature is appended.
	ResetURL string
	Metrics  *metrics.Metrics
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:        deps.CodeStore,
		users:        deps.UserRepo,
		mailer:       deps.Mailer,
		from:         deps.From,
		ttl:          deps.LinkTTL,
		baseURL:      deps.ResetURL,
		metrics:      deps.Metrics,
		newSignature: uuid.NewString,
	}
}

func (s *service) Initiate(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domain.Infra("recovery.lookup", err)
	}
	sig := s.newSignature()
	if err := s.codes.Set(ctx, domain.ResetKey(sig), u.UserID, s.ttl); err != nil {
		return domain.Infra("recovery.store", err)
	}
	body := strings.ReplaceAll(domain.ResetPasswordTemplate, "{{LINK}}", s.baseURL+sig)
	if err := s.mailer.SendEmail(ctx, u.Email, s.from, domain.ResetPasswordSubject, body); err != nil {
		return domain.Infra("recovery.email", err)
	}
	s.metrics.CodeIssued("reset")
	return nil
}

func (s *service) Redeem(ctx context.Context, signature string) (string, error) {
	if signature == "" {
		return "", domain.ErrInvalidOrExpiredLink
	}
	userID, err := s.codes.Take(ctx, domain.ResetKey(signature))
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.CodeRedeemed("reset", domain.TypeInvalidOrExpiredLink)
		return "", domain.ErrInvalidOrExpiredLink
	}
	if err != nil {
		return "", domain.Infra("recovery.redeem", err)
	}
	s.metrics.CodeRedeemed("reset", "ok")
	return userID, nil
}

// ResetPassword checks the new password before touching the link, so a
// rejected password leaves the link usable. Once redeemed the link is gone
// even if the credential update fails.
func (s *service) ResetPassword(ctx context.Context, signature, newPassword string) error {
	if err := validate.Struct(domain.NewPasswordRequest{Password: newPassword}); err != nil {
		return err
	}
	userID, err := s.Redeem(ctx, signature)
	if err != nil {
		return err
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return domain.Infra("recovery.hash", err)
	}
	if _, err := s.users.Update(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return domain.Infra("recovery.update", err)
	}
	return nil
}
