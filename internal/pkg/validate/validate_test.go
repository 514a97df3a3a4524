package validate

import (
	"testing"

	"github.com/go-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStruct_OK(t *testing.T) {
	req := domain.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "longenough"}
	assert.NoError(t, Struct(&req))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	req := domain.RegisterRequest{Username: "al", Email: "nope", Password: "short"}
	err := Struct(&req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.ErrorContains(t, err, "field 'username' failed 'min'")
	assert.ErrorContains(t, err, "field 'email' failed 'email'")
	assert.ErrorContains(t, err, "field 'password' failed 'min'")
}

func TestStruct_MFACodeMustBeSixDigits(t *testing.T) {
	req := domain.LoginRequest{Email: "a@b.com", Password: "x", MFACode: "12ab56"}
	assert.ErrorContains(t, Struct(&req), "mfa_code")

	req.MFACode = "012345"
	assert.NoError(t, Struct(&req))
}
