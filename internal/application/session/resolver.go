package session

import (
	"context"
	"errors"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/metrics"
)

// Credentials are the raw tokens presented with a request. Either may be empty.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Resolution is the outcome of a successful Resolve. AccessToken is set only
// when a new access token was minted from the refresh token; the caller must
// deliver it to the client.
type Resolution struct {
	Identity    domain.Identity
	AccessToken string
}

type tokenSigner interface {
	Sign(userID string) (string, error)
	Verify(token string) (string, error)
}

type refreshVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Resolver decides who is calling. It prefers the access token and falls back
// to the refresh token, reissuing exactly one access token in that case. The
// refresh token itself is never extended or rotated.
type Resolver struct {
	signer  tokenSigner
	ledger  refreshVerifier
	metrics *metrics.Metrics
}

func NewResolver(signer tokenSigner, ledger refreshVerifier, m *metrics.Metrics) *Resolver {
	return &Resolver{signer: signer, ledger: ledger, metrics: m}
}

func (r *Resolver) Resolve(ctx context.Context, c Credentials) (*Resolution, error) {
	res, err := r.resolve(ctx, c)
	switch {
	case err == nil && res.Identity.Reissued:
		r.metrics.SessionResolved("reissued")
	case err == nil:
		r.metrics.SessionResolved("access")
	default:
		var de *domain.Error
		if errors.As(err, &de) {
			r.metrics.SessionResolved(de.Type)
		} else {
			r.metrics.SessionResolved(domain.KindInfrastructure.String())
		}
	}
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, c Credentials) (*Resolution, error) {
	if c.AccessToken == "" && c.RefreshToken == "" {
		return nil, domain.ErrMissingCredentials
	}
	if c.AccessToken != "" {
		if userID, err := r.signer.Verify(c.AccessToken); err == nil {
			return &Resolution{Identity: domain.Identity{UserID: userID}}, nil
		}
	}
	if c.RefreshToken == "" {
		return nil, domain.ErrAccessTokenExpired
	}
	userID, err := r.ledger.Verify(ctx, c.RefreshToken)
	if err != nil {
		return nil, err
	}
	access, err := r.signer.Sign(userID)
	if err != nil {
		return nil, domain.Infra("session.reissue", err)
	}
	return &Resolution{
		Identity:    domain.Identity{UserID: userID, Reissued: true},
		AccessToken: access,
	}, nil
}
