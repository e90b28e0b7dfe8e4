package domain

import "time"

// Session is a server-side sign-in. Its ID is embedded in the bearer token.
type Session struct {
	ID        string
	UserID    string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AuthTokenPurpose distinguishes single-use tokens.
type AuthTokenPurpose string

const (
	TokenPurposePasswordReset     AuthTokenPurpose = "password_reset"
	TokenPurposeEmailVerification AuthTokenPurpose = "email_verification"
)

// AuthToken is a single-use secret mailed to an account holder.
type AuthToken struct {
	ID        string
	Purpose   AuthTokenPurpose
	SubjectID string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token can still be redeemed at now.
func (t *AuthToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
