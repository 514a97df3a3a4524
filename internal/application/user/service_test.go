package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-auth-api/internal/application/mfa"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error) {
	args := m.Called(ctx, userID, updates)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) ListForUser(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if ts, _ := args.Get(0).([]domain.RefreshToken); ts != nil {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLedger) RevokeAllForUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockMFA struct{ mock.Mock }

func (m *mockMFA) Handle(ctx context.Context, userID, code string) (mfa.Outcome, error) {
	args := m.Called(ctx, userID, code)
	return args.Get(0).(mfa.Outcome), args.Error(1)
}

// --- helpers ---

func newSvc(us *mockUserStore, l *mockLedger, m *mockMFA) Service {
	return NewService(ServiceDeps{UserRepo: us, Ledger: l, MFA: m})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func alice() *domain.User {
	return &domain.User{UserID: "u1", Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}
}

// --- tests ---

func TestGet_NotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(nil, fmt.Errorf("x: %w", domain.ErrNotFound))

	_, err := newSvc(us, &mockLedger{}, &mockMFA{}).Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdate_NoChanges(t *testing.T) {
	us := &mockUserStore{}
	_, err := newSvc(us, &mockLedger{}, &mockMFA{}).Update(context.Background(), "u1", domain.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	us.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUpdate_ShortUsername(t *testing.T) {
	us := &mockUserStore{}
	_, err := newSvc(us, &mockLedger{}, &mockMFA{}).Update(context.Background(), "u1", domain.UpdateUserRequest{Username: strPtr("  al ")})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdate_UsernameAndPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	var got map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(map[string]interface{}) }).
		Return(&domain.User{UserID: "u1", Username: "alicia"}, nil)
	m := &mockMFA{}

	u, err := newSvc(us, &mockLedger{}, m).Update(context.Background(), "u1", domain.UpdateUserRequest{
		Username: strPtr("alicia"),
		Password: strPtr("new-password-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)
	assert.Equal(t, "alicia", got[fieldUsername])
	ok, err := password.Compare(got[fieldPasswordHash].(string), "new-password-1")
	require.NoError(t, err)
	assert.True(t, ok)
	m.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_EnableMFAWithoutCodeIssuesChallenge(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	m := &mockMFA{}
	m.On("Handle", mock.Anything, "u1", "").Return(mfa.OutcomeChallengeIssued, nil)

	_, err := newSvc(us, &mockLedger{}, m).Update(context.Background(), "u1", domain.UpdateUserRequest{
		EnableMFA: boolPtr(true),
		Username:  strPtr("alicia"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMFARequired)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.TypeMFARequired, de.Type)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_EnableMFAWithValidCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	us.On("Update", mock.Anything, "u1", map[string]interface{}{fieldMFAEnabled: true}).
		Return(&domain.User{UserID: "u1", MFAEnabled: true}, nil)
	m := &mockMFA{}
	m.On("Handle", mock.Anything, "u1", "123456").Return(mfa.OutcomeVerified, nil)

	u, err := newSvc(us, &mockLedger{}, m).Update(context.Background(), "u1", domain.UpdateUserRequest{
		EnableMFA: boolPtr(true),
		MFACode:   "123456",
	})
	require.NoError(t, err)
	assert.True(t, u.MFAEnabled)
}

func TestUpdate_EnableMFAWrongCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	m := &mockMFA{}
	m.On("Handle", mock.Anything, "u1", "000000").Return(mfa.Outcome(0), domain.ErrInvalidCode)

	_, err := newSvc(us, &mockLedger{}, m).Update(context.Background(), "u1", domain.UpdateUserRequest{
		EnableMFA: boolPtr(true),
		MFACode:   "000000",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestUpdate_MFAAlreadyInRequestedState(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	m := &mockMFA{}

	u, err := newSvc(us, &mockLedger{}, m).Update(context.Background(), "u1", domain.UpdateUserRequest{EnableMFA: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	m.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_RevokesTokensFirst(t *testing.T) {
	var order []string
	l := &mockLedger{}
	l.On("RevokeAllForUser", mock.Anything, "u1").Run(func(mock.Arguments) { order = append(order, "revoke") }).Return(nil)
	us := &mockUserStore{}
	us.On("Delete", mock.Anything, "u1").Run(func(mock.Arguments) { order = append(order, "delete") }).Return(nil)

	require.NoError(t, newSvc(us, l, &mockMFA{}).Delete(context.Background(), "u1"))
	assert.Equal(t, []string{"revoke", "delete"}, order)
}

func TestDelete_NotFound(t *testing.T) {
	l := &mockLedger{}
	l.On("RevokeAllForUser", mock.Anything, "u1").Return(nil)
	us := &mockUserStore{}
	us.On("Delete", mock.Anything, "u1").Return(domain.ErrUserNotFound)

	err := newSvc(us, l, &mockMFA{}).Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDelete_RevokeFailureStopsDelete(t *testing.T) {
	l := &mockLedger{}
	l.On("RevokeAllForUser", mock.Anything, "u1").Return(domain.Infra("refresh.revoke_all", errors.New("boom")))
	us := &mockUserStore{}

	err := newSvc(us, l, &mockMFA{}).Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
	us.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListSessions(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(alice(), nil)
	l := &mockLedger{}
	l.On("ListForUser", mock.Anything, "u1").Return([]domain.RefreshToken{{UserID: "u1"}}, nil)

	got, err := newSvc(us, l, &mockMFA{}).ListSessions(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListSessions_UnknownUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	_, err := newSvc(us, &mockLedger{}, &mockMFA{}).ListSessions(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
