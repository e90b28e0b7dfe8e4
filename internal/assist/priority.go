// Package assist holds the keyword heuristics shown to submitters: priority
// estimation, canned solution suggestions, the help chat and the knowledge base.
package assist

import (
	"strings"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

var urgentKeywords = []string{"urgent", "emergency", "critical", "broken", "not working", "cannot", "down"}

// EstimatePriority maps a description and category to a priority.
// An urgent keyword anywhere in the description wins over the category default.
func EstimatePriority(description string, category domain.TicketCategory) domain.TicketPriority {
	text := strings.ToLower(description)
	for _, keyword := range urgentKeywords {
		if strings.Contains(text, keyword) {
			return domain.TicketPriorityHigh
		}
	}
	switch category {
	case domain.TicketCategorySoftware, domain.TicketCategoryAccount:
		return domain.TicketPriorityLow
	default:
		return domain.TicketPriorityMedium
	}
}
