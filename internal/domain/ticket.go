package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists statuses in their usual lifecycle order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Finished reports whether no further work is expected on the ticket.
func (s TicketStatus) Finished() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// TicketPriorities lists priorities from most to least urgent.
var TicketPriorities = []TicketPriority{TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities; higher is more urgent and unknown values rank 0.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityHigh:
		return 3
	case TicketPriorityMedium:
		return 2
	case TicketPriorityLow:
		return 1
	}
	return 0
}

// TicketCategory classifies the affected area.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccount  TicketCategory = "account"
	TicketCategoryEmail    TicketCategory = "email"
	TicketCategoryPrinter  TicketCategory = "printer"
	TicketCategoryOther    TicketCategory = "other"
)

// TicketCategories lists every category.
var TicketCategories = []TicketCategory{
	TicketCategoryHardware,
	TicketCategorySoftware,
	TicketCategoryNetwork,
	TicketCategoryAccount,
	TicketCategoryEmail,
	TicketCategoryPrinter,
	TicketCategoryOther,
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// TicketSubmitter is the submitter as they were when the ticket was filed.
// It is never refreshed from the live profile.
type TicketSubmitter struct {
	ID         string
	Name       string
	Email      string
	Department string
}

// SubmitterSnapshot captures the profile fields copied onto a new ticket.
func SubmitterSnapshot(profile *UserProfile) TicketSubmitter {
	return TicketSubmitter{
		ID:         profile.ID,
		Name:       profile.Name,
		Email:      profile.Email,
		Department: profile.Department,
	}
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	Reference      string
	Title          string
	Description    string
	Category       TicketCategory
	Priority       TicketPriority
	Status         TicketStatus
	Department     string
	SpecificOffice *string
	AssignedTo     *string
	SubmittedBy    TicketSubmitter
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
