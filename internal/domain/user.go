package domain

import "time"

// Roles recognised by the role check.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Username     string    `json:"username" dynamodbav:"username"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	MFAEnabled   bool      `json:"mfa_enabled" dynamodbav:"mfa_enabled"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	MFACode    string `json:"mfa_code" validate:"omitempty,len=6,numeric"`
	RememberMe bool   `json:"remember_me"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	EnableMFA *bool   `json:"mfa_enabled"`
	MFACode   string  `json:"mfa_code" validate:"omitempty,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}
