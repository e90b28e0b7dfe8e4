package dto

import (
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// CreateTicketRequest payload. Priority is estimated when omitted.
type CreateTicketRequest struct {
	Title          string                `json:"title" validate:"required,max=200"`
	Description    string                `json:"description" validate:"required,max=5000"`
	Category       domain.TicketCategory `json:"category" validate:"required"`
	Priority       domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	SpecificOffice *string               `json:"specific_office" validate:"omitempty,max=120"`
}

// UpdateTicketRequest payload. Absent fields are left unchanged and an empty
// assigned_to clears the assignee.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status" validate:"omitempty,oneof=open in-progress resolved closed"`
	Priority   *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo *string                `json:"assigned_to" validate:"omitempty,max=120"`
}

// AssessRequest asks for a priority estimate and suggestions for a draft.
type AssessRequest struct {
	Description string                `json:"description" validate:"max=5000"`
	Category    domain.TicketCategory `json:"category" validate:"required"`
}

// AssessmentResponse is the draft preview.
type AssessmentResponse struct {
	Priority    domain.TicketPriority `json:"priority"`
	Suggestions []string              `json:"suggestions"`
}

// SubmitterResponse is the submitter snapshot stored on a ticket.
type SubmitterResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID             string                `json:"id"`
	Reference      string                `json:"reference"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Category       domain.TicketCategory `json:"category"`
	Priority       domain.TicketPriority `json:"priority"`
	Status         domain.TicketStatus   `json:"status"`
	Department     string                `json:"department"`
	SpecificOffice *string               `json:"specific_office"`
	AssignedTo     *string               `json:"assigned_to"`
	SubmittedBy    SubmitterResponse     `json:"submitted_by"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// CreatedTicketResponse wraps a new ticket with the suggestions shown after submission.
type CreatedTicketResponse struct {
	Ticket      TicketResponse `json:"ticket"`
	Suggestions []string       `json:"suggestions"`
}

// TicketHistoryResponse entry.
type TicketHistoryResponse struct {
	ID            string                  `json:"id"`
	ChangeType    domain.TicketChangeType `json:"change_type"`
	ChangedByID   string                  `json:"changed_by_id"`
	ChangedByRole domain.Role             `json:"changed_by_role"`
	OldValue      map[string]any          `json:"old_value"`
	NewValue      map[string]any          `json:"new_value"`
	CreatedAt     time.Time               `json:"created_at"`
}
