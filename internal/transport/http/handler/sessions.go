package handler

import (
	"net/http"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/transport/http/middleware"
)

// SessionHandler handles login and logout.
type SessionHandler struct {
	svc     session.Service
	cookies middleware.Cookies
	errs    *middleware.ErrorResponder
}

func NewSessionHandler(svc session.Service, cookies middleware.Cookies, errs *middleware.ErrorResponder) *SessionHandler {
	return &SessionHandler{svc: svc, cookies: cookies, errs: errs}
}

// Login answers 401 MFA_REQUIRED when a code was just emailed; the client
// retries with mfa_code set.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if res.MFAPending {
		h.errs.Write(w, r, domain.ErrMFARequired)
		return
	}
	if res.RefreshToken != "" {
		h.cookies.SetRefresh(w, res.RefreshToken)
	}
	h.cookies.SetAccess(w, res.AccessToken)
	writeJSON(w, http.StatusOK, UserEnvelope{Message: "Login successful", User: res.User})
}

// Logout needs no valid access token: whatever refresh token is presented is
// revoked and both cookies are cleared.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.CredentialsFrom(r).RefreshToken); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged out successfully."})
}
