package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

// DashboardHandler serves the dashboard and reports figures.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// Summary handles GET /dashboard.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	summary, err := h.dashboard.Summary(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}

// Reports handles GET /reports.
func (h *DashboardHandler) Reports(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	summary, err := h.dashboard.Reports(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponse(summary)})
}
