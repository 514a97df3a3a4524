package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/logging"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ErrorResponder maps domain errors onto HTTP responses. Infrastructure
// failures are logged with the route pattern and redacted headers and
// answered with a generic 500. The raw URL is never logged.
type ErrorResponder struct {
	log *slog.Logger
}

func NewErrorResponder(log *slog.Logger) *ErrorResponder {
	if log == nil {
		log = slog.Default()
	}
	return &ErrorResponder{log: log}
}

func (e *ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if kind == domain.KindInfrastructure {
		e.log.ErrorContext(r.Context(), "unexpected error",
			"error", err,
			"method", r.Method,
			"route", routePattern(r),
			"headers", logging.RedactHeaders(r.Header),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeJSON(w, status, ErrorBody{Message: http.StatusText(status)})
		return
	}

	body := ErrorBody{Message: http.StatusText(status)}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Message = de.Message
		body.Type = de.Type
	}
	writeJSON(w, status, body)
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON-encoded response with the correct Content-Type.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
