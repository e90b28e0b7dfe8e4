package domain

import (
	"strings"
	"time"
)

// BootstrapSuperuserEmail is always granted the superuser role when its profile is first created.
const BootstrapSuperuserEmail = "ellisalat@gmail.com"

// UserProfile links an authenticated identity to a role and department.
type UserProfile struct {
	ID         string
	Email      string
	Name       string
	Department string
	Title      *string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Account holds the credentials for a profile. It shares the profile ID.
type Account struct {
	ID              string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the account email has been confirmed.
func (a *Account) Verified() bool {
	return a.EmailVerifiedAt != nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleForNewProfile returns the role a freshly created profile receives.
func RoleForNewProfile(email string) Role {
	if NormalizeEmail(email) == BootstrapSuperuserEmail {
		return RoleSuperuser
	}
	return RoleUser
}

// DisplayNameFromEmail derives a fallback display name from the email local part.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	if local == "" {
		return "User"
	}
	return local
}
