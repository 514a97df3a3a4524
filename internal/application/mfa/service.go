package mfa

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/metrics"
)

// Outcome is the non-error result of Handle.
type Outcome int

const (
	// OutcomeVerified means the submitted code matched and was consumed.
	OutcomeVerified Outcome = iota + 1
	// OutcomeChallengeIssued means a fresh code was stored and emailed.
	OutcomeChallengeIssued
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVerified:
		return "verified"
	case OutcomeChallengeIssued:
		return "challenge_issued"
	}
	return "unknown"
}

type Service interface {
	// Handle issues a challenge when code is empty and verifies it otherwise.
	Handle(ctx context.Context, userID, code string) (Outcome, error)
}

type codeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	TakeIfEqual(ctx context.Context, key, value string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type mailer interface {
	SendEmail(ctx context.Context, to, from, subject, body string) error
}

type service struct {
	codes   codeStore
	users   userStore
	mailer  mailer
	from    string
	ttl     time.Duration
	metrics *metrics.Metrics
	newCode func() (string, error)
}

type ServiceDeps struct {
	CodeStore codeStore
	UserRepo  userStore
	Mailer    mailer
	From      string
	CodeTTL   time.Duration
	Metrics   *metrics.Metrics
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:   deps.CodeStore,
		users:   deps.UserRepo,
		mailer:  deps.Mailer,
		from:    deps.From,
		ttl:     deps.CodeTTL,
		metrics: deps.Metrics,
		newCode: generateCode,
	}
}

func (s *service) Handle(ctx context.Context, userID, code string) (Outcome, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, domain.Infra("mfa.lookup", err)
	}
	if code == "" {
		return s.issue(ctx, u)
	}
	return s.verify(ctx, u.UserID, code)
}

func (s *service) issue(ctx context.Context, u *domain.User) (Outcome, error) {
	code, err := s.newCode()
	if err != nil {
		return 0, domain.Infra("mfa.generate", err)
	}
	if err := s.codes.Set(ctx, domain.MFAKey(u.UserID), code, s.ttl); err != nil {
		return 0, domain.Infra("mfa.store", err)
	}
	body := strings.NewReplacer(
		"{{CODE}}", code,
		"{{MINUTES}}", strconv.Itoa(int(s.ttl/time.Minute)),
	).Replace(domain.VerificationTemplate)
	if err := s.mailer.SendEmail(ctx, u.Email, s.from, domain.VerificationSubject, body); err != nil {
		return 0, domain.Infra("mfa.email", err)
	}
	s.metrics.CodeIssued("mfa")
	return OutcomeChallengeIssued, nil
}

func (s *service) verify(ctx context.Context, userID, code string) (Outcome, error) {
	key := domain.MFAKey(userID)
	stored, err := s.codes.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.CodeRedeemed("mfa", domain.TypeCodeExpiredOrMissing)
		return 0, domain.ErrCodeExpiredOrMissing
	}
	if err != nil {
		return 0, domain.Infra("mfa.fetch", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.metrics.CodeRedeemed("mfa", domain.TypeInvalidCode)
		return 0, domain.ErrInvalidCode
	}
	// The key may have been redeemed or reissued since Get; only a removal of
	// this exact code counts.
	if err := s.codes.TakeIfEqual(ctx, key, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.CodeRedeemed("mfa", domain.TypeCodeExpiredOrMissing)
			return 0, domain.ErrCodeExpiredOrMissing
		}
		return 0, domain.Infra("mfa.consume", err)
	}
	s.metrics.CodeRedeemed("mfa", "ok")
	return OutcomeVerified, nil
}

var codeSpace = big.NewInt(1_000_000)

// generateCode returns a uniformly random 6-digit decimal string.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
