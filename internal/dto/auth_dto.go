package dto

import (
	"github.com/google/uuid"
)

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,len=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type RegisterResponse struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	User         UserDTO `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserDTO struct {
	Id       string  `json:"id"`
	Email    string  `json:"email,omitempty"`
	FullName string  `json:"full_name"`
	Provider string  `json:"provider"`
	Avatar   *string `json:"avatar,omitempty"`
}

// GuestLoginRequest carries an optional display name; everything else is
// generated locally without touching the remote auth collaborator.
type GuestLoginRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type GuestLoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

// SessionResponse mirrors the auth-state subscription: the current user
// or null, plus whether login-requiring surfaces should be enabled.
type SessionResponse struct {
	User          *UserDTO `json:"user"`
	AuthAvailable bool     `json:"auth_available"`
}
