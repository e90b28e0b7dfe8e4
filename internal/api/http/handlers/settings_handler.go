package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/dto"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

// SettingsHandler exposes the system settings screen.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	settings, err := h.settings.Get(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}

// Update handles PUT /settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SettingsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	settings, err := h.settings.Update(c.UserContext(), principal, service.SettingsInput{
		SystemName:        req.SystemName,
		AdminEmail:        req.AdminEmail,
		SupportPhone:      req.SupportPhone,
		TicketPrefix:      req.TicketPrefix,
		NotificationEmail: req.NotificationEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}
