package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/dto"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/service"
)

// TicketsHandler manages ticket endpoints for every role. Role checks live
// in the service.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Assess handles POST /tickets/assist.
func (h *TicketsHandler) Assess(c *fiber.Ctx) error {
	var req dto.AssessRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	assessment, err := h.service.Assess(req.Description, req.Category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assessmentResponse(assessment)})
}

// CreateTicket handles POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal, service.TicketCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		SpecificOffice: req.SpecificOffice,
	})
	if err != nil {
		return err
	}
	assessment, err := h.service.Assess(ticket.Description, ticket.Category)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreatedTicketResponse{
		Ticket:      ticketResponse(ticket),
		Suggestions: assessment.Suggestions,
	}})
}

// ListTickets handles GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	return h.list(c, false)
}

// ListMyTickets handles GET /tickets/mine.
func (h *TicketsHandler) ListMyTickets(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *TicketsHandler) list(c *fiber.Ctx, mineOnly bool) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	filter := parseTicketQuery(c)
	filter.MineOnly = mineOnly

	tickets, err := h.service.ListTickets(c.UserContext(), principal, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket handles GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket handles PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), principal, c.Params("id"), service.TicketPatch{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListHistory handles GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	for _, part := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	for _, part := range splitQuery(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(part))
	}
	for _, part := range splitQuery(c.Query("category")) {
		filter.Categories = append(filter.Categories, domain.TicketCategory(part))
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Limit, filter.Offset = pagination(c)
	return filter
}
