package handler

import (
	"net/http"

	"github.com/go-auth-api/internal/application/recovery"
	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/validate"
	"github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// PasswordResetHandler handles the emailed reset link flow.
type PasswordResetHandler struct {
	svc  recovery.Service
	errs *middleware.ErrorResponder
}

func NewPasswordResetHandler(svc recovery.Service, errs *middleware.ErrorResponder) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc, errs: errs}
}

// Initiate answers the same message whether or not the address is registered.
func (h *PasswordResetHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	req.Email = session.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.svc.Initiate(r.Context(), req.Email); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: recovery.ResponseMessage})
}

func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req domain.NewPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password has been reset successfully."})
}
