package domain

import "time"

// RefreshToken is a persisted, opaque, long-lived credential. Records are
// never mutated after creation.
type RefreshToken struct {
	Token     string    `json:"-" dynamodbav:"token"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at,unixtime"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

// Expired reports whether the record is past its absolute expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Identity is the authenticated caller attached to one request.
type Identity struct {
	UserID string
	// Reissued is set when the access token was minted from a refresh token
	// during this request.
	Reissued bool
}
