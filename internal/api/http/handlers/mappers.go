package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wajir-county/ict-helpdesk/internal/api/dto"
	"github.com/wajir-county/ict-helpdesk/internal/assist"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/service"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
	"github.com/wajir-county/ict-helpdesk/pkg/validator"
)

// bind parses the JSON body into req and runs its validation tags.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	return validator.Struct(req)
}

func splitQuery(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pagination reads page and page_size. A missing page_size leaves the limit
// to the service default.
func pagination(c *fiber.Ctx) (limit, offset int) {
	pageSize := parseInt(c.Query("page_size"), 0)
	if pageSize == 0 {
		return 0, 0
	}
	page := parseInt(c.Query("page"), 1)
	return pageSize, (page - 1) * pageSize
}

func profileResponse(profile *domain.UserProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:         profile.ID,
		Email:      profile.Email,
		Name:       profile.Name,
		Department: profile.Department,
		Title:      profile.Title,
		Role:       profile.Role,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}

func authResponse(session *service.SessionResult) *dto.AuthResponse {
	if session == nil {
		return nil
	}
	return &dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}
}

func routeResponses(role domain.Role) []dto.RouteResponse {
	routes := auth.AllowedRoutes(role)
	out := make([]dto.RouteResponse, 0, len(routes))
	for _, route := range routes {
		out = append(out, dto.RouteResponse{Path: route.Path, Label: route.Label})
	}
	return out
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		Reference:      ticket.Reference,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Category:       ticket.Category,
		Priority:       ticket.Priority,
		Status:         ticket.Status,
		Department:     ticket.Department,
		SpecificOffice: ticket.SpecificOffice,
		AssignedTo:     ticket.AssignedTo,
		SubmittedBy: dto.SubmitterResponse{
			ID:         ticket.SubmittedBy.ID,
			Name:       ticket.SubmittedBy.Name,
			Email:      ticket.SubmittedBy.Email,
			Department: ticket.SubmittedBy.Department,
		},
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketResponse(&tickets[i]))
	}
	return out
}

func historyResponses(entries []domain.TicketHistory) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:            entry.ID,
			ChangeType:    entry.ChangeType,
			ChangedByID:   entry.ChangedByID,
			ChangedByRole: entry.ChangedByRole,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return resp
}

func assessmentResponse(assessment assist.Assessment) dto.AssessmentResponse {
	return dto.AssessmentResponse{Priority: assessment.Priority, Suggestions: assessment.Suggestions}
}

func settingsResponse(settings domain.SystemSettings) dto.SettingsResponse {
	resp := dto.SettingsResponse{
		SystemName:        settings.SystemName,
		AdminEmail:        settings.AdminEmail,
		SupportPhone:      settings.SupportPhone,
		TicketPrefix:      settings.TicketPrefix,
		NotificationEmail: settings.NotificationEmail,
		UpdatedBy:         settings.UpdatedBy,
	}
	if !settings.UpdatedAt.IsZero() {
		updatedAt := settings.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func summaryResponse(summary dashboard.Summary) dto.SummaryResponse {
	resp := dto.SummaryResponse{
		Total:          summary.Total,
		ByStatus:       summary.ByStatus,
		HighPriority:   summary.HighPriority,
		ResolutionRate: summary.ResolutionRate,
		ByCategory:     make([]dto.CategoryShareResponse, 0, len(summary.ByCategory)),
		ByDepartment:   make([]dto.DepartmentShareResponse, 0, len(summary.ByDepartment)),
		Recent:         ticketResponses(summary.Recent),
		SLA: dto.SLAResponse{
			OnTrack:  summary.SLA.OnTrack,
			AtRisk:   summary.SLA.AtRisk,
			Breached: summary.SLA.Breached,
			Tickets:  make([]dto.SLAEntryResponse, 0, len(summary.SLA.Tickets)),
		},
		GeneratedAt: summary.GeneratedAt,
	}
	for _, share := range summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, dto.CategoryShareResponse{
			Category:   share.Category,
			Count:      share.Count,
			Percentage: share.Percentage,
		})
	}
	for _, share := range summary.ByDepartment {
		resp.ByDepartment = append(resp.ByDepartment, dto.DepartmentShareResponse{Department: share.Department, Count: share.Count})
	}
	for _, entry := range summary.SLA.Tickets {
		resp.SLA.Tickets = append(resp.SLA.Tickets, dto.SLAEntryResponse{
			TicketID:           entry.TicketID,
			Reference:          entry.Reference,
			Title:              entry.Title,
			Priority:           entry.Priority,
			TicketStatus:       entry.TicketStatus,
			ResponseDeadline:   entry.ResponseDeadline,
			ResolutionDeadline: entry.ResolutionDeadline,
			HoursRemaining:     entry.HoursRemaining,
			Status:             entry.Status,
		})
	}
	return resp
}
