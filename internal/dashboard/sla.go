package dashboard

import (
	"math"
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/config"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// atRiskMultiplier flags a ticket once elapsed time times the multiplier reaches its threshold.
const atRiskMultiplier = 1.5

// SLAStatus is the derived health of a ticket against its deadlines.
type SLAStatus string

const (
	SLAOnTrack  SLAStatus = "on-track"
	SLAAtRisk   SLAStatus = "at-risk"
	SLABreached SLAStatus = "breached"
)

// SLAThreshold is the time allowed for first response and for resolution.
type SLAThreshold struct {
	Response   time.Duration
	Resolution time.Duration
}

// SLAPolicy maps priorities to thresholds.
type SLAPolicy map[domain.TicketPriority]SLAThreshold

// DefaultSLAPolicy returns the help desk's standard response and resolution times.
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		domain.TicketPriorityHigh:   {Response: time.Hour, Resolution: 4 * time.Hour},
		domain.TicketPriorityMedium: {Response: 4 * time.Hour, Resolution: 24 * time.Hour},
		domain.TicketPriorityLow:    {Response: 8 * time.Hour, Resolution: 48 * time.Hour},
	}
}

// Threshold returns the thresholds for priority, falling back to medium.
func (p SLAPolicy) Threshold(priority domain.TicketPriority) SLAThreshold {
	if threshold, ok := p[priority]; ok {
		return threshold
	}
	if threshold, ok := p[domain.TicketPriorityMedium]; ok {
		return threshold
	}
	return DefaultSLAPolicy()[domain.TicketPriorityMedium]
}

// SLAEntry is one ticket's SLA evaluation.
type SLAEntry struct {
	TicketID           string
	Reference          string
	Title              string
	Priority           domain.TicketPriority
	TicketStatus       domain.TicketStatus
	ResponseDeadline   time.Time
	ResolutionDeadline time.Time
	HoursRemaining     float64
	Status             SLAStatus
}

// Evaluate derives the SLA status of ticket at now. Finished tickets are
// judged at their last update instead of now. Open tickets must meet the
// response deadline as well as the resolution deadline.
func (p SLAPolicy) Evaluate(ticket domain.Ticket, now time.Time) SLAEntry {
	threshold := p.Threshold(ticket.Priority)
	entry := SLAEntry{
		TicketID:           ticket.ID,
		Reference:          ticket.Reference,
		Title:              ticket.Title,
		Priority:           ticket.Priority,
		TicketStatus:       ticket.Status,
		ResponseDeadline:   ticket.CreatedAt.Add(threshold.Response),
		ResolutionDeadline: ticket.CreatedAt.Add(threshold.Resolution),
	}

	at := now
	if ticket.Status.Finished() {
		at = ticket.UpdatedAt
	}
	elapsed := at.Sub(ticket.CreatedAt)

	deadline := entry.ResolutionDeadline
	limit := threshold.Resolution
	if ticket.Status == domain.TicketStatusOpen {
		deadline = entry.ResponseDeadline
		limit = threshold.Response
	}
	entry.HoursRemaining = roundHours(deadline.Sub(at))

	switch {
	case at.After(deadline), at.After(entry.ResolutionDeadline):
		entry.Status = SLABreached
	case ticket.Status.Finished():
		entry.Status = SLAOnTrack
	case float64(elapsed)*atRiskMultiplier >= float64(limit):
		entry.Status = SLAAtRisk
	default:
		entry.Status = SLAOnTrack
	}
	return entry
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*10) / 10
}

// PolicyFromConfig builds an SLA policy from configured hours.
func PolicyFromConfig(cfg config.SLAConfig) SLAPolicy {
	hours := func(h int) time.Duration { return time.Duration(h) * time.Hour }
	return SLAPolicy{
		domain.TicketPriorityHigh:   {Response: hours(cfg.HighResponseHours), Resolution: hours(cfg.HighResolutionHours)},
		domain.TicketPriorityMedium: {Response: hours(cfg.MediumResponseHours), Resolution: hours(cfg.MediumResolutionHours)},
		domain.TicketPriorityLow:    {Response: hours(cfg.LowResponseHours), Resolution: hours(cfg.LowResolutionHours)},
	}
}
