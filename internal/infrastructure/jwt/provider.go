package jwtinfra

import (
	"errors"
	"time"

	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields: iss, sub, iat and exp.
type Claims struct {
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 access tokens.
type Provider struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("jwt issuer is empty")
	}
	if cfg.JWTExpiry <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	return &Provider{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: cfg.JWTExpiry,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of p that reads the current time from now.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	cp := *p
	cp.now = now
	return &cp
}

func (p *Provider) Sign(userID string) (string, error) {
	now := p.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks the signature first and only then trusts the claims, in the
// order issuer, expiry, subject. It returns the subject on success.
func (p *Provider) Verify(tokenStr string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return "", domain.ErrInvalidIssuer
	}
	if claims.ExpiresAt == nil {
		return "", domain.ErrInvalidToken
	}
	if !p.now().Before(claims.ExpiresAt.Time) {
		return "", domain.ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidSubject
	}
	return claims.Subject, nil
}
