// Package dashboard derives the figures shown on the dashboard and reports
// screens from an already fetched ticket slice. Nothing here is persisted.
package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// RecentLimit is the number of newest tickets included in a summary.
const RecentLimit = 5

// CategoryShare is a category's slice of the ticket set.
type CategoryShare struct {
	Category   domain.TicketCategory
	Count      int
	Percentage int
}

// DepartmentShare counts tickets raised from a department.
type DepartmentShare struct {
	Department string
	Count      int
}

// SLAOverview totals SLA statuses across unfinished tickets.
type SLAOverview struct {
	OnTrack  int
	AtRisk   int
	Breached int
	Tickets  []SLAEntry
}

// Summary is the derived dashboard view of a ticket set.
type Summary struct {
	Total          int
	ByStatus       map[domain.TicketStatus]int
	HighPriority   int
	ResolutionRate int
	ByCategory     []CategoryShare
	ByDepartment   []DepartmentShare
	Recent         []domain.Ticket
	SLA            SLAOverview
	GeneratedAt    time.Time
}

// Summarize aggregates tickets as of now. The input slice is not modified.
func Summarize(tickets []domain.Ticket, now time.Time, policy SLAPolicy) Summary {
	summary := Summary{
		Total:       len(tickets),
		ByStatus:    make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		GeneratedAt: now,
	}
	for _, status := range domain.TicketStatuses {
		summary.ByStatus[status] = 0
	}

	categories := map[domain.TicketCategory]int{}
	departments := map[string]int{}
	for _, ticket := range tickets {
		summary.ByStatus[ticket.Status]++
		if ticket.Priority == domain.TicketPriorityHigh {
			summary.HighPriority++
		}
		categories[ticket.Category]++
		departments[ticket.Department]++
		if !ticket.Status.Finished() {
			entry := policy.Evaluate(ticket, now)
			summary.SLA.Tickets = append(summary.SLA.Tickets, entry)
			switch entry.Status {
			case SLABreached:
				summary.SLA.Breached++
			case SLAAtRisk:
				summary.SLA.AtRisk++
			default:
				summary.SLA.OnTrack++
			}
		}
	}

	summary.ResolutionRate = percentage(summary.ByStatus[domain.TicketStatusResolved], summary.Total)
	summary.ByCategory = categoryShares(categories, summary.Total)
	summary.ByDepartment = departmentShares(departments)
	summary.Recent = Recent(tickets, RecentLimit)
	sort.SliceStable(summary.SLA.Tickets, func(i, j int) bool {
		return summary.SLA.Tickets[i].HoursRemaining < summary.SLA.Tickets[j].HoursRemaining
	})
	return summary
}

// Recent returns up to limit tickets, newest first.
func Recent(tickets []domain.Ticket, limit int) []domain.Ticket {
	sorted := append([]domain.Ticket(nil), tickets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func categoryShares(counts map[domain.TicketCategory]int, total int) []CategoryShare {
	shares := make([]CategoryShare, 0, len(counts))
	for category, count := range counts {
		shares = append(shares, CategoryShare{Category: category, Count: count, Percentage: percentage(count, total)})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

func departmentShares(counts map[string]int) []DepartmentShare {
	shares := make([]DepartmentShare, 0, len(counts))
	for department, count := range counts {
		shares = append(shares, DepartmentShare{Department: department, Count: count})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Department < shares[j].Department
	})
	return shares
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
