package models

import "time"

// LoginRequest is the credential pair posted to the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the data part of a successful login.
type LoginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Admin     Admin      `json:"admin"`
}

// ChangePasswordRequest changes the signed-in admin's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
	Confirmation    string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}
