package assist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/assist"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

var _ = Describe("EstimatePriority", func() {
	DescribeTable("urgent keywords force high priority for every category",
		func(description string) {
			for _, category := range domain.TicketCategories {
				Expect(assist.EstimatePriority(description, category)).To(Equal(domain.TicketPriorityHigh), string(category))
			}
		},
		Entry("urgent", "this is URGENT please"),
		Entry("emergency", "Emergency in the records office"),
		Entry("critical", "critical failure"),
		Entry("broken", "the screen is Broken"),
		Entry("not working", "My printer is not working"),
		Entry("cannot", "I cannot log in"),
		Entry("down", "the server is down"),
		Entry("keyword inside a word", "the download is slow"),
	)

	It("returns low for software and account without keywords", func() {
		Expect(assist.EstimatePriority("please install office", domain.TicketCategorySoftware)).To(Equal(domain.TicketPriorityLow))
		Expect(assist.EstimatePriority("new starter needs access", domain.TicketCategoryAccount)).To(Equal(domain.TicketPriorityLow))
	})

	It("returns medium for every other category without keywords", func() {
		for _, category := range []domain.TicketCategory{
			domain.TicketCategoryHardware,
			domain.TicketCategoryNetwork,
			domain.TicketCategoryEmail,
			domain.TicketCategoryPrinter,
			domain.TicketCategoryOther,
		} {
			Expect(assist.EstimatePriority("requesting help", category)).To(Equal(domain.TicketPriorityMedium), string(category))
		}
	})

	It("treats an empty description by category alone", func() {
		Expect(assist.EstimatePriority("", domain.TicketCategoryAccount)).To(Equal(domain.TicketPriorityLow))
		Expect(assist.EstimatePriority("", domain.TicketCategory("unknown"))).To(Equal(domain.TicketPriorityMedium))
	})
})

var _ = Describe("SuggestSolutions", func() {
	It("returns the printer steps for a printer ticket", func() {
		solutions := assist.SuggestSolutions("My printer is not working", domain.TicketCategoryPrinter)
		Expect(solutions).To(HaveLen(4))
		Expect(solutions[0]).To(Equal("Ensure the printer is powered on and connected to the network"))
	})

	It("matches on the issue title before a later category match", func() {
		solutions := assist.SuggestSolutions("Email not syncing since Monday", domain.TicketCategoryHardware)
		Expect(solutions[0]).To(Equal("Check your internet connection"))
		Expect(solutions).To(ContainElement("Restart your email application"))
	})

	It("falls back to the escalation text when nothing matches", func() {
		solutions := assist.SuggestSolutions("the projector fan is loud", domain.TicketCategoryOther)
		Expect(solutions).To(HaveLen(3))
		Expect(solutions[2]).To(ContainSubstring("helpdesk@wajir.go.ke"))
	})

	It("never returns an empty list", func() {
		for _, category := range append(domain.TicketCategories, domain.TicketCategory("")) {
			Expect(assist.SuggestSolutions("", category)).NotTo(BeEmpty())
		}
	})

	It("returns a copy the caller may modify", func() {
		first := assist.SuggestSolutions("", domain.TicketCategoryEmail)
		first[0] = "changed"
		Expect(assist.SuggestSolutions("", domain.TicketCategoryEmail)[0]).To(Equal("Check your internet connection"))
	})
})

var _ = Describe("Assess", func() {
	It("combines the priority estimate with suggestions", func() {
		result := assist.Assess("Computer running slowly", domain.TicketCategoryHardware)
		Expect(result.Priority).To(Equal(domain.TicketPriorityMedium))
		Expect(result.Suggestions).To(ContainElement("Run a virus scan"))
	})
})

var _ = Describe("ChatReply", func() {
	It("answers the first matching rule", func() {
		Expect(assist.ChatReply("I forgot my PASSWORD and my email")).To(ContainSubstring("password reset"))
		Expect(assist.ChatReply("outlook keeps crashing")).To(ContainSubstring("email-related"))
		Expect(assist.ChatReply("wifi drops")).To(ContainSubstring("network connectivity"))
	})

	It("uses the generic reply when no keyword matches", func() {
		Expect(assist.ChatReply("hello there")).To(HavePrefix("Thank you for contacting Wajir Helpdesk AI."))
	})
})

var _ = Describe("SearchArticles", func() {
	It("returns all articles for an empty query", func() {
		Expect(assist.SearchArticles("", "")).To(HaveLen(6))
		Expect(assist.SearchArticles("", "all")).To(HaveLen(6))
	})

	It("filters by category and query", func() {
		software := assist.SearchArticles("", "software")
		Expect(software).To(HaveLen(2))

		matches := assist.SearchArticles("PRINTER", "")
		Expect(matches).To(HaveLen(1))
		Expect(matches[0].Title).To(Equal("Printer Setup and Troubleshooting"))

		Expect(assist.SearchArticles("printer", "Email")).To(BeEmpty())
	})

	It("lists distinct categories", func() {
		Expect(assist.ArticleCategories()).To(Equal([]string{"Network", "Hardware", "Email", "Security", "Software"}))
	})
})
