package service_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/service"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

var _ = Describe("TicketService", func() {
	var (
		f       *fixture
		jane    *auth.Principal
		omar    *auth.Principal
		officer *auth.Principal
		admin   *auth.Principal
	)

	BeforeEach(func() {
		f = newFixture(false)
		jane = f.principal("jane@wajir.go.ke", "Jane", domain.RoleUser)
		omar = f.principal("omar@wajir.go.ke", "Omar", domain.RoleUser)
		officer = f.principal("ict.officer1@wajir.go.ke", "Ahmed Hassan", domain.RoleICTOfficer)
		admin = f.principal("director@wajir.go.ke", "Mohamed Shahid", domain.RoleAdmin)
	})

	Describe("CreateTicket", func() {
		It("files Jane's printer ticket as high priority and open", func() {
			ticket := f.submit(jane, "Printer problem", "My printer is not working", domain.TicketCategoryPrinter)

			Expect(ticket.Priority).To(Equal(domain.TicketPriorityHigh))
			Expect(ticket.Status).To(Equal(domain.TicketStatusOpen))
			Expect(ticket.SubmittedBy.ID).To(Equal(jane.UserID()))
			Expect(ticket.SubmittedBy.Name).To(Equal("Jane"))
			Expect(ticket.Department).To(Equal("Health Services"))
			Expect(ticket.Reference).To(HavePrefix("WCG-ICT-"))
			Expect(ticket.Reference).To(HaveLen(len("WCG-ICT-") + 8))
			Expect(ticket.CreatedAt).To(Equal(f.now))
		})

		It("keeps an explicit priority", func() {
			ticket, err := f.tickets.CreateTicket(f.ctx, jane, service.TicketCreateInput{
				Title:       "Mail quota",
				Description: "Mailbox nearly full",
				Category:    domain.TicketCategoryEmail,
				Priority:    domain.TicketPriorityLow,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ticket.Priority).To(Equal(domain.TicketPriorityLow))
		})

		It("rejects an empty title without storing anything", func() {
			_, err := f.tickets.CreateTicket(f.ctx, jane, service.TicketCreateInput{
				Title:       "   ",
				Description: "Something broke",
				Category:    domain.TicketCategoryHardware,
			})
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())

			list, err := f.tickets.ListTickets(f.ctx, officer, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("strips markup from the title and description", func() {
			ticket := f.submit(jane, "<b>Scanner</b>   offline", "<script>alert(1)</script>Scanner offline & beeping", domain.TicketCategoryHardware)
			Expect(ticket.Title).To(Equal("Scanner offline"))
			Expect(ticket.Description).To(Equal("Scanner offline & beeping"))
		})

		It("treats markup-only titles as blank", func() {
			_, err := f.tickets.CreateTicket(f.ctx, jane, service.TicketCreateInput{
				Title:       "<img src=x>",
				Description: "text",
				Category:    domain.TicketCategoryOther,
			})
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
		})

		It("validates category, priority and office", func() {
			office := "Budget Office"
			_, err := f.tickets.CreateTicket(f.ctx, jane, service.TicketCreateInput{
				Title:          "Title",
				Description:    "Description",
				Category:       "furniture",
				Priority:       "urgent",
				SpecificOffice: &office,
			})
			var domainErr *errorutil.DomainError
			Expect(err).To(BeAssignableToTypeOf(domainErr))
			details := errorutil.ToDomainError(err).Details
			Expect(details).To(HaveKey("category"))
			Expect(details).To(HaveKey("priority"))
			Expect(details).To(HaveKey("specific_office"))
		})

		It("accepts an office of the submitter's department", func() {
			office := "Pharmacy Services"
			ticket, err := f.tickets.CreateTicket(f.ctx, jane, service.TicketCreateInput{
				Title:          "Label printer",
				Description:    "Needs toner",
				Category:       domain.TicketCategoryPrinter,
				SpecificOffice: &office,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*ticket.SpecificOffice).To(Equal("Pharmacy Services"))
		})

		It("uses the configured reference prefix", func() {
			settings := domain.DefaultSystemSettings()
			settings.TicketPrefix = "WJR-"
			Expect(f.store.Settings().Save(f.ctx, &settings)).To(Succeed())

			ticket := f.submit(jane, "VPN", "VPN slow", domain.TicketCategoryNetwork)
			Expect(ticket.Reference).To(HavePrefix("WJR-"))
		})

		It("records a created history entry and publishes an event", func() {
			created := capture[events.TicketCreatedPayload](f.dispatcher, events.EventTicketCreated)
			ticket := f.submit(jane, "Outlook", "Email not syncing", domain.TicketCategoryEmail)

			history, err := f.tickets.ListHistory(f.ctx, jane, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(1))
			Expect(history[0].ChangeType).To(Equal(domain.ChangeTypeCreated))
			Expect(*created).To(HaveLen(1))
			Expect((*created)[0].Reference).To(Equal(ticket.Reference))
		})
	})

	Describe("ListTickets", func() {
		It("never shows a user someone else's tickets", func() {
			mine := f.submit(jane, "Mine", "printer jam", domain.TicketCategoryPrinter)
			f.submit(omar, "Theirs", "password reset", domain.TicketCategoryAccount)

			list, err := f.tickets.ListTickets(f.ctx, jane, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(mine.ID))
			for _, ticket := range list {
				Expect(ticket.SubmittedBy.ID).To(Equal(jane.UserID()))
			}
		})

		It("orders the ICT officer queue by priority then newest", func() {
			oldHigh := f.submit(jane, "Server", "server down", domain.TicketCategoryNetwork)
			f.advance(time.Minute)
			low := f.submit(omar, "Word", "install word", domain.TicketCategorySoftware)
			f.advance(time.Minute)
			medium := f.submit(jane, "Mouse", "mouse sticky", domain.TicketCategoryHardware)
			f.advance(time.Minute)
			newHigh := f.submit(omar, "Printer", "printer broken", domain.TicketCategoryPrinter)

			list, err := f.tickets.ListTickets(f.ctx, officer, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			ids := []string{}
			for _, ticket := range list {
				ids = append(ids, ticket.ID)
			}
			Expect(ids).To(Equal([]string{newHigh.ID, oldHigh.ID, medium.ID, low.ID}))
		})

		It("orders everyone else newest first", func() {
			first := f.submit(jane, "Server", "server down", domain.TicketCategoryNetwork)
			f.advance(time.Minute)
			second := f.submit(omar, "Word", "install word", domain.TicketCategorySoftware)

			list, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list[0].ID).To(Equal(second.ID))
			Expect(list[1].ID).To(Equal(first.ID))
		})

		It("returns equal results when nothing changed in between", func() {
			f.submit(jane, "A", "one", domain.TicketCategoryOther)
			f.submit(omar, "B", "two", domain.TicketCategoryOther)

			first, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			second, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		Context("with a redis list cache", func() {
			ids := func(tickets []domain.Ticket) []string {
				out := []string{}
				for _, ticket := range tickets {
					out = append(out, ticket.ID)
				}
				return out
			}

			It("serves repeat lists from the cache", func() {
				mr := f.withListCache()
				first := f.submit(jane, "A", "one", domain.TicketCategoryOther)

				list, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())
				Expect(ids(list)).To(Equal([]string{first.ID}))
				Expect(len(mr.Keys())).To(BeNumerically(">=", 2))

				again, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())
				Expect(ids(again)).To(Equal([]string{first.ID}))
			})

			It("reflects a ticket created after the list was cached", func() {
				f.withListCache()
				first := f.submit(jane, "A", "one", domain.TicketCategoryOther)
				_, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())

				f.advance(time.Minute)
				second := f.submit(omar, "B", "two", domain.TicketCategoryOther)

				list, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())
				Expect(ids(list)).To(Equal([]string{second.ID, first.ID}))
			})

			It("reflects an update after the list was cached", func() {
				f.withListCache()
				ticket := f.submit(jane, "A", "one", domain.TicketCategoryOther)
				_, err := f.tickets.ListTickets(f.ctx, officer, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())

				resolved := domain.TicketStatusResolved
				_, err = f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{Status: &resolved})
				Expect(err).NotTo(HaveOccurred())

				list, err := f.tickets.ListTickets(f.ctx, officer, service.TicketListFilter{})
				Expect(err).NotTo(HaveOccurred())
				Expect(list).To(HaveLen(1))
				Expect(list[0].Status).To(Equal(domain.TicketStatusResolved))
			})
		})

		It("narrows staff to their own submissions with MineOnly", func() {
			f.submit(jane, "A", "one", domain.TicketCategoryOther)
			own := f.submit(officer, "B", "two", domain.TicketCategoryOther)

			list, err := f.tickets.ListTickets(f.ctx, officer, service.TicketListFilter{MineOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(own.ID))
		})

		It("rejects unknown filter values", func() {
			_, err := f.tickets.ListTickets(f.ctx, admin, service.TicketListFilter{Statuses: []domain.TicketStatus{"pending"}})
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
		})
	})

	Describe("GetTicket", func() {
		It("hides other people's tickets from users", func() {
			ticket := f.submit(jane, "Mine", "printer jam", domain.TicketCategoryPrinter)

			_, err := f.tickets.GetTicket(f.ctx, omar, ticket.ID)
			Expect(errorutil.HasCode(err, errorutil.CodeNotFound)).To(BeTrue())

			found, err := f.tickets.GetTicket(f.ctx, officer, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(ticket.ID))
		})

		It("reports unknown tickets as not found", func() {
			_, err := f.tickets.GetTicket(f.ctx, admin, "missing")
			Expect(errorutil.HasCode(err, errorutil.CodeNotFound)).To(BeTrue())
		})
	})

	Describe("UpdateTicket", func() {
		var ticket *domain.Ticket

		BeforeEach(func() {
			ticket = f.submit(jane, "Printer", "printer jam", domain.TicketCategoryPrinter)
		})

		It("refuses users and leaves the ticket unchanged", func() {
			resolved := domain.TicketStatusResolved
			_, err := f.tickets.UpdateTicket(f.ctx, jane, ticket.ID, service.TicketPatch{Status: &resolved})
			Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())

			stored, err := f.tickets.GetTicket(f.ctx, jane, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(Equal(ticket))
		})

		It("lets staff move to any status and strictly advances updated_at", func() {
			closed := domain.TicketStatusClosed
			updated, err := f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{Status: &closed})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(domain.TicketStatusClosed))
			Expect(updated.UpdatedAt.After(ticket.UpdatedAt)).To(BeTrue())

			open := domain.TicketStatusOpen
			reopened, err := f.tickets.UpdateTicket(f.ctx, admin, ticket.ID, service.TicketPatch{Status: &open})
			Expect(err).NotTo(HaveOccurred())
			Expect(reopened.UpdatedAt.After(updated.UpdatedAt)).To(BeTrue())
		})

		It("records history for each changed field", func() {
			inProgress := domain.TicketStatusInProgress
			low := domain.TicketPriorityLow
			assignee := "Ahmed Hassan"
			statusEvents := capture[events.TicketStatusChangedPayload](f.dispatcher, events.EventTicketStatusChanged)

			updated, err := f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{
				Status:     &inProgress,
				Priority:   &low,
				AssignedTo: &assignee,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.AssignedTo).To(Equal("Ahmed Hassan"))

			history, err := f.tickets.ListHistory(f.ctx, officer, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			changeTypes := []domain.TicketChangeType{}
			for _, entry := range history {
				changeTypes = append(changeTypes, entry.ChangeType)
			}
			Expect(changeTypes).To(Equal([]domain.TicketChangeType{
				domain.ChangeTypeCreated,
				domain.ChangeTypeStatus,
				domain.ChangeTypePriority,
				domain.ChangeTypeAssignment,
			}))
			Expect(history[1].ChangedByRole).To(Equal(domain.RoleICTOfficer))
			Expect(*statusEvents).To(ConsistOf(events.TicketStatusChangedPayload{
				Reference:      ticket.Reference,
				OldStatus:      domain.TicketStatusOpen,
				NewStatus:      domain.TicketStatusInProgress,
				SubmitterEmail: "jane@wajir.go.ke",
			}))
		})

		It("clears the assignee with an empty string", func() {
			assignee := "Ahmed"
			_, err := f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{AssignedTo: &assignee})
			Expect(err).NotTo(HaveOccurred())

			empty := ""
			updated, err := f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{AssignedTo: &empty})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AssignedTo).To(BeNil())
		})

		It("rejects invalid values and empty patches", func() {
			bogus := domain.TicketStatus("waiting")
			_, err := f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{Status: &bogus})
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())

			_, err = f.tickets.UpdateTicket(f.ctx, officer, ticket.ID, service.TicketPatch{})
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
		})

		It("keeps the submitter snapshot when the profile changes", func() {
			jane.Profile.Name = "Jane Abdi"
			Expect(f.store.Users().Update(f.ctx, jane.Profile)).To(Succeed())

			stored, err := f.tickets.GetTicket(f.ctx, officer, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.SubmittedBy.Name).To(Equal("Jane"))
		})
	})

	Describe("Assess", func() {
		It("previews priority and suggestions", func() {
			assessment, err := f.tickets.Assess("Outlook is not working", domain.TicketCategoryEmail)
			Expect(err).NotTo(HaveOccurred())
			Expect(assessment.Priority).To(Equal(domain.TicketPriorityHigh))
			Expect(assessment.Suggestions).NotTo(BeEmpty())
		})

		It("rejects unknown categories", func() {
			_, err := f.tickets.Assess("anything", "furniture")
			Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
		})
	})

	It("generates distinct references", func() {
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			ticket := f.submit(jane, "T", strings.Repeat("x", i+1), domain.TicketCategoryOther)
			Expect(seen).NotTo(HaveKey(ticket.Reference))
			seen[ticket.Reference] = true
		}
	})
})
