package dto

import (
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// ProfileResponse is the public view of a user profile.
type ProfileResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Department string      `json:"department"`
	Title      *string     `json:"title"`
	Role       domain.Role `json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// UpdateRoleRequest payload for role changes.
type UpdateRoleRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=user ict_officer admin superuser"`
}
