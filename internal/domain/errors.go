package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInfrastructure = errors.New("infrastructure failure")
)

// Kind is the closed set of outcome categories surfaced to callers.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInfrastructure:
		return "infrastructure"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindBadRequest:
		return ErrBadRequest
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindInfrastructure:
		return ErrInfrastructure
	}
	return nil
}

// Error type tags carried by Unauthorized and Forbidden outcomes. The values
// are part of the wire contract and must not change.
const (
	TypeInvalidToken         = "invalid_token"
	TypeInvalidIssuer        = "invalid_issuer"
	TypeExpired              = "expired"
	TypeInvalidSubject       = "invalid_subject"
	TypeMFARequired          = "MFA_REQUIRED"
	TypeMFARequiredForAdmin  = "MFA_REQUIRED_FOR_ADMIN"
	TypeMissingCredentials   = "missing_credentials"
	TypeAccessTokenExpired   = "access_token_expired"
	TypeRefreshTokenInvalid  = "refresh_token_invalid"
	TypeInvalidCode          = "invalid_code"
	TypeCodeExpiredOrMissing = "code_expired_or_missing"
	TypeInvalidOrExpiredLink = "invalid_or_expired_link"
	TypeInvalidCredentials   = "invalid_credentials"
	TypeForbiddenRole        = "forbidden_role"
)

// Error is an expected, recoverable outcome with a stable message and type.
// errors.Is matches both the exact variant and its Kind sentinel.
type Error struct {
	Kind    Kind
	Type    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Token verification failures.
var (
	ErrInvalidToken   = &Error{Kind: KindUnauthorized, Type: TypeInvalidToken, Message: "Invalid token"}
	ErrInvalidIssuer  = &Error{Kind: KindUnauthorized, Type: TypeInvalidIssuer, Message: "Invalid issuer"}
	ErrTokenExpired   = &Error{Kind: KindUnauthorized, Type: TypeExpired, Message: "Token has expired"}
	ErrInvalidSubject = &Error{Kind: KindUnauthorized, Type: TypeInvalidSubject, Message: "Invalid subject"}
)

// Session resolution failures.
var (
	ErrMissingCredentials  = &Error{Kind: KindUnauthorized, Type: TypeMissingCredentials, Message: "Access and/or Refresh token is missing."}
	ErrAccessTokenExpired  = &Error{Kind: KindUnauthorized, Type: TypeAccessTokenExpired, Message: "Access token has expired."}
	ErrRefreshTokenInvalid = &Error{Kind: KindUnauthorized, Type: TypeRefreshTokenInvalid, Message: "Refresh token is invalid or expired."}
	ErrForbiddenRole       = &Error{Kind: KindForbidden, Type: TypeForbiddenRole, Message: "Admin privileges are required."}
	ErrMFARequiredForAdmin = &Error{Kind: KindForbidden, Type: TypeMFARequiredForAdmin, Message: "Multi-factor authentication must be enabled for admin access."}
)

// Verification code and account failures.
var (
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrInvalidCode            = &Error{Kind: KindUnauthorized, Type: TypeInvalidCode, Message: "Invalid MFA code."}
	ErrCodeExpiredOrMissing   = &Error{Kind: KindUnauthorized, Type: TypeCodeExpiredOrMissing, Message: "MFA code has expired or was not requested."}
	ErrMFARequired            = &Error{Kind: KindUnauthorized, Type: TypeMFARequired, Message: "Verification code sent to email."}
	ErrInvalidOrExpiredLink   = &Error{Kind: KindUnauthorized, Type: TypeInvalidOrExpiredLink, Message: "Invalid or expired reset password token."}
	ErrInvalidCredentials     = &Error{Kind: KindUnauthorized, Type: TypeInvalidCredentials, Message: "Invalid email or password."}
	ErrEmailAlreadyRegistered = &Error{Kind: KindConflict, Message: "Email is already registered."}
)

// BadRequest builds a malformed-input outcome with the given message.
func BadRequest(msg string) error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// InfraError marks a store, email or network failure. Its detail is logged,
// never shown to the caller.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *InfraError) Unwrap() error { return e.Err }

func (e *InfraError) Is(target error) bool { return target == ErrInfrastructure }

// Infra wraps err as an infrastructure failure of op. nil stays nil and an
// error that is already classified is returned unchanged.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	var ie *InfraError
	if errors.As(err, &ie) {
		return err
	}
	return &InfraError{Op: op, Err: err}
}

// KindOf classifies err. Unclassified errors are treated as infrastructure
// failures so that nothing internal leaks to the caller.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrInfrastructure) {
		return KindInfrastructure
	}
	switch {
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindInfrastructure
}
