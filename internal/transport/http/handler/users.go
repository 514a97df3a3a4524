package handler

import (
	"net/http"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/application/user"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles the account endpoints. Everything but Register acts on
// the authenticated caller; the session endpoints are admin-only.
type UserHandler struct {
	accounts session.Service
	svc      user.Service
	cookies  middleware.Cookies
	errs     *middleware.ErrorResponder
}

func NewUserHandler(accounts session.Service, svc user.Service, cookies middleware.Cookies, errs *middleware.ErrorResponder) *UserHandler {
	return &UserHandler{accounts: accounts, svc: svc, cookies: cookies, errs: errs}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	res, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	h.cookies.SetRefresh(w, res.RefreshToken)
	h.cookies.SetAccess(w, res.AccessToken)
	writeJSON(w, http.StatusCreated, UserEnvelope{Message: "User created successfully", User: res.User})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, domain.ErrMissingCredentials)
		return
	}
	u, err := h.svc.Get(r.Context(), id.UserID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, domain.ErrMissingCredentials)
		return
	}
	var req domain.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	u, err := h.svc.Update(r.Context(), id.UserID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.errs.Write(w, r, domain.ErrMissingCredentials)
		return
	}
	if err := h.svc.Delete(r.Context(), id.UserID); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User deleted successfully."})
}

func (h *UserHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.svc.ListSessions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if tokens == nil {
		tokens = []domain.RefreshToken{}
	}
	writeJSON(w, http.StatusOK, SessionsEnvelope{Data: tokens})
}

func (h *UserHandler) RevokeSessions(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RevokeSessions(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Sessions revoked."})
}
