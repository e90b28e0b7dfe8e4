package dto

import "time"

// SignUpRequest payload for self-service registration.
type SignUpRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	Name            string  `json:"name" validate:"max=120"`
	Department      string  `json:"department" validate:"max=120"`
	Title           *string `json:"title" validate:"omitempty,max=120"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenRequest carries a mailed single-use token.
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// PasswordResetRequest starts a reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest finishes a reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is the restored session state.
type SessionResponse struct {
	Auth    *AuthResponse   `json:"auth,omitempty"`
	Profile ProfileResponse `json:"profile"`
	Routes  []RouteResponse `json:"routes"`
}

// SignUpResponse reports a registration.
type SignUpResponse struct {
	Profile             ProfileResponse `json:"profile"`
	Auth                *AuthResponse   `json:"auth,omitempty"`
	VerificationPending bool            `json:"verification_pending"`
}
