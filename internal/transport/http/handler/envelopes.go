package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-auth-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// UserEnvelope wraps register/login/profile responses. The user's fields are
// inlined next to the message.
type UserEnvelope struct {
	Message string `json:"message,omitempty"`
	*domain.User
}

// SessionsEnvelope wraps the admin listing of a user's refresh tokens.
type SessionsEnvelope struct {
	Data []domain.RefreshToken `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var errInvalidBody = domain.BadRequest("Invalid request body.")

// decodeJSON reads the request body into v. A malformed body is a BadRequest.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
