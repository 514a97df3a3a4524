package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Register(ctx context.Context, req domain.RegisterRequest) (*session.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*session.AuthResult)
	return res, args.Error(1)
}

func (m *mockSessionSvc) Login(ctx context.Context, req domain.LoginRequest) (*session.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*session.AuthResult)
	return res, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserSvc) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserSvc) ListSessions(ctx context.Context, userID string) ([]domain.RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]domain.RefreshToken)
	return tokens, args.Error(1)
}

func (m *mockUserSvc) RevokeSessions(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockRecoverySvc struct{ mock.Mock }

func (m *mockRecoverySvc) Initiate(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockRecoverySvc) Redeem(ctx context.Context, signature string) (string, error) {
	args := m.Called(ctx, signature)
	return args.String(0), args.Error(1)
}

func (m *mockRecoverySvc) ResetPassword(ctx context.Context, signature, newPassword string) error {
	return m.Called(ctx, signature, newPassword).Error(0)
}

// --- helpers ---

var testCookies = middleware.Cookies{AccessMaxAge: 900 * time.Second, RefreshMaxAge: 30 * 24 * time.Hour}

func jsonReq(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(method, target, bytes.NewReader(b))
}

// asUser attaches an authenticated identity, as Authenticate would.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), domain.Identity{UserID: userID}))
}

// withURLParam injects a chi URL param into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func cookieByName(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
