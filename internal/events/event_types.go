package events

import (
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"

	EventUserSignedUp             EventType = "user_signed_up"
	EventUserSignedIn             EventType = "user_signed_in"
	EventUserSignedOut            EventType = "user_signed_out"
	EventProfileCreated           EventType = "profile_created"
	EventEmailVerified            EventType = "email_verified"
	EventPasswordResetRequested   EventType = "password_reset_requested"
	EventPasswordChanged          EventType = "password_changed"
	EventUserRoleChanged          EventType = "user_role_changed"
	EventSystemSettingsUpdated    EventType = "system_settings_updated"
	EventEmailVerificationPending EventType = "email_verification_pending"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Reference      string                `json:"reference"`
	Title          string                `json:"title"`
	Category       domain.TicketCategory `json:"category"`
	Priority       domain.TicketPriority `json:"priority"`
	Department     string                `json:"department"`
	SubmitterEmail string                `json:"submitter_email"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Reference      string              `json:"reference"`
	OldStatus      domain.TicketStatus `json:"old_status"`
	NewStatus      domain.TicketStatus `json:"new_status"`
	SubmitterEmail string              `json:"submitter_email"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	Reference   string                `json:"reference"`
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Reference  string  `json:"reference"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// SessionPayload accompanies sign-in, sign-out and sign-up events.
type SessionPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Email     string `json:"email"`
}

// ProfileCreatedPayload payload.
type ProfileCreatedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// TokenIssuedPayload carries a single-use token to the mail stub.
type TokenIssuedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	Email   string      `json:"email"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
