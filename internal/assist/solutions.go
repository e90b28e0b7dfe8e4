package assist

import (
	"strings"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// CommonIssue is a known problem with its remediation steps.
type CommonIssue struct {
	Title     string
	Category  domain.TicketCategory
	Solutions []string
}

var commonIssues = []CommonIssue{
	{
		Title:    "Email not syncing",
		Category: domain.TicketCategoryEmail,
		Solutions: []string{
			"Check your internet connection",
			"Restart your email application",
			"Verify your email credentials are correct",
			"Clear the cache in your email application",
		},
	},
	{
		Title:    "Printer not connecting",
		Category: domain.TicketCategoryPrinter,
		Solutions: []string{
			"Ensure the printer is powered on and connected to the network",
			"Restart the printer",
			"Check if the correct printer driver is installed",
			"Verify your computer is connected to the same network as the printer",
		},
	},
	{
		Title:    "Cannot access a website",
		Category: domain.TicketCategoryNetwork,
		Solutions: []string{
			"Check your internet connection",
			"Clear your browser cache and cookies",
			"Try accessing the site with a different browser",
			"Verify the website URL is correct",
		},
	},
	{
		Title:    "Forgotten password",
		Category: domain.TicketCategoryAccount,
		Solutions: []string{
			`Use the "Forgot Password" link on the login page`,
			"Contact the IT department for a password reset",
			"Check if your account is locked due to multiple failed attempts",
		},
	},
	{
		Title:    "Computer running slowly",
		Category: domain.TicketCategoryHardware,
		Solutions: []string{
			"Restart your computer",
			"Close unnecessary applications",
			"Check for and install system updates",
			"Run a virus scan",
			"Clear temporary files",
		},
	},
}

var fallbackSolutions = []string{
	"We couldn't find an automated solution for your specific issue.",
	"Your ticket has been created and an IT specialist will assist you soon.",
	"For urgent issues, please contact the IT helpdesk directly at helpdesk@wajir.go.ke.",
}

// SuggestSolutions returns the remediation steps of the first common issue whose
// category matches or whose title appears in the description. The result is never empty.
func SuggestSolutions(description string, category domain.TicketCategory) []string {
	text := strings.ToLower(description)
	for _, issue := range commonIssues {
		if issue.Category == category || strings.Contains(text, strings.ToLower(issue.Title)) {
			return append([]string(nil), issue.Solutions...)
		}
	}
	return append([]string(nil), fallbackSolutions...)
}

// Assessment is the preview shown before a ticket is submitted.
type Assessment struct {
	Priority    domain.TicketPriority
	Suggestions []string
}

// Assess runs both heuristics over a draft ticket.
func Assess(description string, category domain.TicketCategory) Assessment {
	return Assessment{
		Priority:    EstimatePriority(description, category),
		Suggestions: SuggestSolutions(description, category),
	}
}
