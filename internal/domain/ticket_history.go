package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated    TicketChangeType = "created"
	ChangeTypeStatus     TicketChangeType = "status_change"
	ChangeTypePriority   TicketChangeType = "priority_change"
	ChangeTypeAssignment TicketChangeType = "assignment_change"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID            string
	TicketID      string
	ChangedByID   string
	ChangedByRole Role
	ChangeType    TicketChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
