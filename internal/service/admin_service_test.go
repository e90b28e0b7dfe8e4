package service_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/internal/service"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

func mustHash(password string) string {
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	return hash
}

var _ = Describe("UserService", func() {
	var (
		f         *fixture
		user      *auth.Principal
		officer   *auth.Principal
		admin     *auth.Principal
		superuser *auth.Principal
	)

	BeforeEach(func() {
		f = newFixture(false)
		user = f.principal("user.demo@wajir.go.ke", "Fatuma Mohamed", domain.RoleUser)
		officer = f.principal("ict.officer1@wajir.go.ke", "Ahmed Hassan", domain.RoleICTOfficer)
		admin = f.principal("director@wajir.go.ke", "Mohamed Shahid", domain.RoleAdmin)
		superuser = f.principal(domain.BootstrapSuperuserEmail, "Superuser", domain.RoleSuperuser)
	})

	It("lists the directory for admins only", func() {
		for _, caller := range []*auth.Principal{user, officer} {
			users, err := f.users.ListUsers(f.ctx, caller, repository.UserFilter{})
			Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())
			Expect(users).To(BeNil())
		}

		users, err := f.users.ListUsers(f.ctx, admin, repository.UserFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(4))
	})

	It("lets only a superuser change roles", func() {
		_, err := f.users.UpdateUserRole(f.ctx, admin, user.UserID(), domain.RoleICTOfficer)
		Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())

		promoted, err := f.users.UpdateUserRole(f.ctx, superuser, user.UserID(), domain.RoleICTOfficer)
		Expect(err).NotTo(HaveOccurred())
		Expect(promoted.Role).To(Equal(domain.RoleICTOfficer))

		stored, err := f.store.Users().GetByID(f.ctx, user.UserID())
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Role).To(Equal(domain.RoleICTOfficer))
	})

	It("refuses to change the caller's own role", func() {
		_, err := f.users.UpdateUserRole(f.ctx, superuser, superuser.UserID(), domain.RoleUser)
		Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())
	})

	It("validates the role", func() {
		_, err := f.users.UpdateUserRole(f.ctx, superuser, user.UserID(), domain.Role("root"))
		Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
	})
})

var _ = Describe("SettingsService", func() {
	var (
		f         *fixture
		admin     *auth.Principal
		superuser *auth.Principal
	)

	BeforeEach(func() {
		f = newFixture(false)
		admin = f.principal("director@wajir.go.ke", "Mohamed Shahid", domain.RoleAdmin)
		superuser = f.principal(domain.BootstrapSuperuserEmail, "Superuser", domain.RoleSuperuser)
	})

	It("serves defaults until saved", func() {
		settings, err := f.settings.Get(f.ctx, superuser)
		Expect(err).NotTo(HaveOccurred())
		Expect(settings.SystemName).To(Equal("Wajir County ICT Help Desk"))
		Expect(settings.TicketPrefix).To(Equal("WCG-ICT-"))
	})

	It("is reserved for superusers", func() {
		_, err := f.settings.Get(f.ctx, admin)
		Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())
		_, err = f.settings.Update(f.ctx, admin, service.SettingsInput{})
		Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())
	})

	It("saves a complete settings set", func() {
		saved, err := f.settings.Update(f.ctx, superuser, service.SettingsInput{
			SystemName:        "Wajir Help Desk",
			AdminEmail:        "Admin@Wajir.go.ke",
			SupportPhone:      "+254 700 000 000",
			TicketPrefix:      "WJR-",
			NotificationEmail: "alerts@wajir.go.ke",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.AdminEmail).To(Equal("admin@wajir.go.ke"))
		Expect(*saved.UpdatedBy).To(Equal(superuser.UserID()))

		current, err := f.settings.Current(f.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(current.TicketPrefix).To(Equal("WJR-"))
	})

	It("rejects blank fields", func() {
		_, err := f.settings.Update(f.ctx, superuser, service.SettingsInput{SystemName: "x"})
		Expect(errorutil.HasCode(err, errorutil.CodeValidation)).To(BeTrue())
		Expect(errorutil.ToDomainError(err).Details).To(HaveKey("ticket_prefix"))
	})

	It("stores defaults once", func() {
		Expect(f.settings.EnsureDefaults(f.ctx)).To(Succeed())
		stored, err := f.store.Settings().Get(f.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.SystemName).To(Equal("Wajir County ICT Help Desk"))
		Expect(f.settings.EnsureDefaults(f.ctx)).To(Succeed())
	})
})

var _ = Describe("DashboardService", func() {
	var (
		f       *fixture
		jane    *auth.Principal
		omar    *auth.Principal
		officer *auth.Principal
	)

	BeforeEach(func() {
		f = newFixture(false)
		jane = f.principal("jane@wajir.go.ke", "Jane", domain.RoleUser)
		omar = f.principal("omar@wajir.go.ke", "Omar", domain.RoleUser)
		officer = f.principal("ict.officer1@wajir.go.ke", "Ahmed Hassan", domain.RoleICTOfficer)

		f.submit(jane, "Printer", "printer not working", domain.TicketCategoryPrinter)
		f.submit(omar, "Word", "install word", domain.TicketCategorySoftware)
		f.submit(omar, "Mouse", "mouse sticky", domain.TicketCategoryHardware)
	})

	It("summarizes only a user's own tickets", func() {
		summary, err := f.dashboard.Summary(f.ctx, jane)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Total).To(Equal(1))
		Expect(summary.HighPriority).To(Equal(1))
	})

	It("summarizes every ticket for staff", func() {
		summary, err := f.dashboard.Summary(f.ctx, officer)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Total).To(Equal(3))
		Expect(summary.ByStatus[domain.TicketStatusOpen]).To(Equal(3))
		Expect(summary.Recent).To(HaveLen(3))
	})

	It("tracks SLA against the service clock", func() {
		f.advance(2 * time.Hour)
		summary, err := f.dashboard.Summary(f.ctx, officer)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.SLA.Breached).To(Equal(1))
		Expect(summary.SLA.Tickets[0].Status).To(Equal(dashboard.SLABreached))
	})

	It("keeps reports away from regular users", func() {
		_, err := f.dashboard.Reports(f.ctx, jane)
		Expect(errorutil.HasCode(err, errorutil.CodeForbidden)).To(BeTrue())

		report, err := f.dashboard.Reports(f.ctx, officer)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.ByDepartment).To(HaveLen(1))
		Expect(report.ByDepartment[0].Count).To(Equal(3))
	})
})
