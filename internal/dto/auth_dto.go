package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=client admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Role is the surface the login form belongs to ("admin" for the
	// admin portal). Empty means the regular client form.
	Role string `json:"role" validate:"omitempty,oneof=client admin"`
}

type UserResponse struct {
	Id            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	AdminApproved bool       `json:"adminApproved"`
	Image         string     `json:"image,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
}

type LoginResponse struct {
	RedirectUrl string       `json:"redirectUrl"`
	User        UserResponse `json:"user"`
}

type RegisterResponse struct {
	User UserResponse `json:"user"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// UserInfoCookie is the JSON payload of the readable user_info cookie.
// It exists for the frontend only and is never trusted for authorization.
type UserInfoCookie struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}
