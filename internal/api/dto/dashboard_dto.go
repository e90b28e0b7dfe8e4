package dto

import (
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// CategoryShareResponse entry.
type CategoryShareResponse struct {
	Category   domain.TicketCategory `json:"category"`
	Count      int                   `json:"count"`
	Percentage int                   `json:"percentage"`
}

// DepartmentShareResponse entry.
type DepartmentShareResponse struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// SLAEntryResponse is one ticket's SLA state.
type SLAEntryResponse struct {
	TicketID           string                `json:"ticket_id"`
	Reference          string                `json:"reference"`
	Title              string                `json:"title"`
	Priority           domain.TicketPriority `json:"priority"`
	TicketStatus       domain.TicketStatus   `json:"ticket_status"`
	ResponseDeadline   time.Time             `json:"response_deadline"`
	ResolutionDeadline time.Time             `json:"resolution_deadline"`
	HoursRemaining     float64               `json:"hours_remaining"`
	Status             dashboard.SLAStatus   `json:"status"`
}

// SLAResponse totals.
type SLAResponse struct {
	OnTrack  int                `json:"on_track"`
	AtRisk   int                `json:"at_risk"`
	Breached int                `json:"breached"`
	Tickets  []SLAEntryResponse `json:"tickets"`
}

// SummaryResponse is the dashboard and reports payload.
type SummaryResponse struct {
	Total          int                         `json:"total"`
	ByStatus       map[domain.TicketStatus]int `json:"by_status"`
	HighPriority   int                         `json:"high_priority"`
	ResolutionRate int                         `json:"resolution_rate"`
	ByCategory     []CategoryShareResponse     `json:"by_category"`
	ByDepartment   []DepartmentShareResponse   `json:"by_department"`
	Recent         []TicketResponse            `json:"recent"`
	SLA            SLAResponse                 `json:"sla"`
	GeneratedAt    time.Time                   `json:"generated_at"`
}
