package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/dto"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/internal/service"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// UsersHandler exposes the user directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// ListUsers handles GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}

	filter := repository.UserFilter{}
	if raw := c.Query("role"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return errorutil.NewValidationError("invalid filter", map[string]any{"role": "unknown role"})
		}
		filter.Role = &role
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Limit, filter.Offset = pagination(c)

	users, err := h.users.ListUsers(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(users))
	for i := range users {
		items = append(items, profileResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateRole handles PATCH /users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.users.UpdateUserRole(c.UserContext(), principal, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}
