package memstore_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/internal/repository/memstore"
)

var _ = Describe("Store", func() {
	var (
		store   *memstore.Store
		clock   time.Time
		ctx     context.Context
		alice   repository.Viewer
		bob     repository.Viewer
		officer repository.Viewer
	)

	newTicket := func(submitter repository.Viewer, reference string, priority domain.TicketPriority) *domain.Ticket {
		return &domain.Ticket{
			Reference:   reference,
			Title:       "Printer jammed " + reference,
			Description: "Paper stuck in tray two",
			Category:    domain.TicketCategoryPrinter,
			Priority:    priority,
			Status:      domain.TicketStatusOpen,
			Department:  "Health Services",
			SubmittedBy: domain.TicketSubmitter{ID: submitter.UserID, Name: "Submitter", Email: "s@wajir.go.ke", Department: "Health Services"},
		}
	}

	createAs := func(viewer repository.Viewer, ticket *domain.Ticket) {
		Expect(store.Tickets().Create(repository.ContextWithViewer(ctx, viewer), ticket)).To(Succeed())
	}

	BeforeEach(func() {
		clock = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
		var err error
		store, err = memstore.New(memstore.WithClock(func() time.Time { return clock }))
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		alice = repository.Viewer{UserID: "alice", Role: domain.RoleUser}
		bob = repository.Viewer{UserID: "bob", Role: domain.RoleUser}
		officer = repository.Viewer{UserID: "officer", Role: domain.RoleICTOfficer}
	})

	Describe("users", func() {
		It("stores normalized emails and rejects duplicates", func() {
			user := &domain.UserProfile{Email: "  Jane@Wajir.go.ke ", Name: "Jane", Department: "General", Role: domain.RoleUser}
			Expect(store.Users().Create(ctx, user)).To(Succeed())
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Email).To(Equal("jane@wajir.go.ke"))

			found, err := store.Users().GetByEmail(ctx, "JANE@wajir.go.ke")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(user.ID))

			err = store.Users().Create(ctx, &domain.UserProfile{Email: "jane@wajir.go.ke", Name: "Other", Role: domain.RoleUser})
			Expect(err).To(MatchError(repository.ErrConflict))
		})

		It("filters the directory by role", func() {
			Expect(store.Users().Create(ctx, &domain.UserProfile{Email: "a@wajir.go.ke", Name: "A", Role: domain.RoleUser})).To(Succeed())
			Expect(store.Users().Create(ctx, &domain.UserProfile{Email: "b@wajir.go.ke", Name: "B", Role: domain.RoleAdmin})).To(Succeed())

			role := domain.RoleAdmin
			users, err := store.Users().List(ctx, repository.UserFilter{Role: &role})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Email).To(Equal("b@wajir.go.ke"))
		})

		It("returns ErrNotFound for unknown ids", func() {
			_, err := store.Users().GetByID(ctx, "missing")
			Expect(err).To(MatchError(repository.ErrNotFound))
		})
	})

	Describe("tickets", func() {
		It("rejects inserts on behalf of someone else", func() {
			err := store.Tickets().Create(repository.ContextWithViewer(ctx, bob), newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow))
			Expect(err).To(MatchError(repository.ErrRowPolicy))

			err = store.Tickets().Create(ctx, newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow))
			Expect(err).To(MatchError(repository.ErrRowPolicy))
		})

		It("hides other submitters' tickets from regular users", func() {
			mine := newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow)
			createAs(alice, mine)
			createAs(bob, newTicket(bob, "WCG-ICT-2", domain.TicketPriorityHigh))

			list, err := store.Tickets().List(repository.ContextWithViewer(ctx, alice), repository.TicketFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(mine.ID))

			_, err = store.Tickets().GetByID(repository.ContextWithViewer(ctx, bob), mine.ID)
			Expect(err).To(MatchError(repository.ErrNotFound))

			list, err = store.Tickets().List(ctx, repository.TicketFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("orders newest first, or by priority when asked", func() {
			low := newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow)
			createAs(alice, low)
			clock = clock.Add(time.Minute)
			high := newTicket(bob, "WCG-ICT-2", domain.TicketPriorityHigh)
			createAs(bob, high)
			clock = clock.Add(time.Minute)
			medium := newTicket(alice, "WCG-ICT-3", domain.TicketPriorityMedium)
			createAs(alice, medium)

			staff := repository.ContextWithViewer(ctx, officer)
			newest, err := store.Tickets().List(staff, repository.TicketFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{newest[0].ID, newest[1].ID, newest[2].ID}).To(Equal([]string{medium.ID, high.ID, low.ID}))

			byPriority, err := store.Tickets().List(staff, repository.TicketFilter{Order: repository.OrderPriority})
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{byPriority[0].ID, byPriority[1].ID, byPriority[2].ID}).To(Equal([]string{high.ID, medium.ID, low.ID}))
		})

		It("filters by submitter, status and search term", func() {
			createAs(alice, newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow))
			other := newTicket(bob, "WCG-ICT-2", domain.TicketPriorityLow)
			other.Title = "VPN drops"
			createAs(bob, other)

			staff := repository.ContextWithViewer(ctx, officer)
			submitter := "bob"
			list, err := store.Tickets().List(staff, repository.TicketFilter{SubmittedByID: &submitter})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			term := "vpn"
			list, err = store.Tickets().List(staff, repository.TicketFilter{SearchTerm: &term, Statuses: []domain.TicketStatus{domain.TicketStatusOpen}})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Reference).To(Equal("WCG-ICT-2"))
		})

		It("only lets staff update and keeps updated_at increasing", func() {
			ticket := newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow)
			createAs(alice, ticket)
			created := ticket.UpdatedAt

			ticket.Status = domain.TicketStatusResolved
			Expect(store.Tickets().Update(repository.ContextWithViewer(ctx, alice), ticket)).To(MatchError(repository.ErrNotFound))

			staff := repository.ContextWithViewer(ctx, officer)
			Expect(store.Tickets().Update(staff, ticket)).To(Succeed())
			first := ticket.UpdatedAt
			Expect(first.After(created)).To(BeTrue())

			ticket.Status = domain.TicketStatusClosed
			Expect(store.Tickets().Update(staff, ticket)).To(Succeed())
			Expect(ticket.UpdatedAt.After(first)).To(BeTrue())

			stored, err := store.Tickets().GetByID(staff, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(domain.TicketStatusClosed))
			Expect(stored.CreatedAt).To(Equal(created))
		})

		It("rejects duplicate references", func() {
			createAs(alice, newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow))
			err := store.Tickets().Create(repository.ContextWithViewer(ctx, alice), newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow))
			Expect(err).To(MatchError(repository.ErrConflict))
		})
	})

	Describe("ticket history", func() {
		It("lists entries oldest first", func() {
			ticket := newTicket(alice, "WCG-ICT-1", domain.TicketPriorityLow)
			createAs(alice, ticket)

			history := store.TicketHistory()
			Expect(history.Create(ctx, &domain.TicketHistory{TicketID: ticket.ID, ChangedByID: "alice", ChangedByRole: domain.RoleUser, ChangeType: domain.ChangeTypeCreated})).To(Succeed())
			Expect(history.Create(ctx, &domain.TicketHistory{
				TicketID:      ticket.ID,
				ChangedByID:   "officer",
				ChangedByRole: domain.RoleICTOfficer,
				ChangeType:    domain.ChangeTypeStatus,
				OldValue:      map[string]any{"status": "open"},
				NewValue:      map[string]any{"status": "in-progress"},
			})).To(Succeed())

			entries, err := history.ListByTicket(ctx, ticket.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].ChangeType).To(Equal(domain.ChangeTypeCreated))
			Expect(entries[1].NewValue).To(HaveKeyWithValue("status", "in-progress"))
		})

		It("refuses entries for unknown tickets", func() {
			err := store.TicketHistory().Create(ctx, &domain.TicketHistory{TicketID: "missing", ChangedByID: "x", ChangeType: domain.ChangeTypeCreated})
			Expect(err).To(MatchError(repository.ErrNotFound))
		})
	})

	Describe("sessions", func() {
		It("expires sessions by the store clock", func() {
			session := &domain.Session{ID: "s1", UserID: "alice", Email: "a@wajir.go.ke", CreatedAt: clock, ExpiresAt: clock.Add(time.Hour)}
			Expect(store.Sessions().Create(ctx, session)).To(Succeed())

			_, err := store.Sessions().Get(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())

			clock = clock.Add(2 * time.Hour)
			_, err = store.Sessions().Get(ctx, "s1")
			Expect(err).To(MatchError(repository.ErrNotFound))
		})
	})

	Describe("settings", func() {
		It("reports missing settings until saved", func() {
			_, err := store.Settings().Get(ctx)
			Expect(err).To(MatchError(repository.ErrNotFound))

			settings := domain.DefaultSystemSettings()
			settings.TicketPrefix = "WJR-"
			Expect(store.Settings().Save(ctx, &settings)).To(Succeed())

			stored, err := store.Settings().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.TicketPrefix).To(Equal("WJR-"))
		})
	})

	Describe("auth tokens", func() {
		It("redeems a token once", func() {
			account := &domain.Account{Email: "a@wajir.go.ke", PasswordHash: "x"}
			Expect(store.Accounts().Create(ctx, account)).To(Succeed())

			token := &domain.AuthToken{Purpose: domain.TokenPurposePasswordReset, SubjectID: account.ID, Token: "abc", ExpiresAt: clock.Add(time.Hour)}
			Expect(store.AuthTokens().Create(ctx, token)).To(Succeed())

			_, err := store.AuthTokens().GetByToken(ctx, domain.TokenPurposeEmailVerification, "abc")
			Expect(err).To(MatchError(repository.ErrNotFound))

			found, err := store.AuthTokens().GetByToken(ctx, domain.TokenPurposePasswordReset, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(store.AuthTokens().MarkUsed(ctx, found.ID, clock)).To(Succeed())
			Expect(store.AuthTokens().MarkUsed(ctx, found.ID, clock)).To(MatchError(repository.ErrNotFound))
		})
	})
})
