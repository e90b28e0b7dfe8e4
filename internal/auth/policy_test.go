package auth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

var _ = Describe("Role policy", func() {
	ticket := &domain.Ticket{ID: "t-1", SubmittedBy: domain.TicketSubmitter{ID: "owner"}}

	DescribeTable("capability table",
		func(role domain.Role, viewAll, mutate, directory, settings bool) {
			Expect(auth.CanView(role, "owner", ticket)).To(BeTrue())
			Expect(auth.CanView(role, "someone-else", ticket)).To(Equal(viewAll))
			Expect(auth.CanMutate(role, auth.PermUpdateStatus)).To(Equal(mutate))
			Expect(auth.CanMutate(role, auth.PermUpdatePriority)).To(Equal(mutate))
			Expect(auth.CanMutate(role, auth.PermAssignTicket)).To(Equal(mutate))
			Expect(auth.CanAccessUserDirectory(role)).To(Equal(directory))
			Expect(auth.CanManageSettings(role)).To(Equal(settings))
		},
		Entry("user", domain.RoleUser, false, false, false, false),
		Entry("ict_officer", domain.RoleICTOfficer, true, true, false, false),
		Entry("admin", domain.RoleAdmin, true, true, true, false),
		Entry("superuser", domain.RoleSuperuser, true, true, true, true),
	)

	It("denies everything to an unknown role", func() {
		Expect(auth.CanView("guest", "owner", ticket)).To(BeFalse())
		Expect(auth.Can("guest", auth.PermCreateTicket)).To(BeFalse())
		Expect(auth.AllowedRoutes("guest")).To(BeEmpty())
	})

	It("refuses to treat non-mutation permissions as mutations", func() {
		Expect(auth.CanMutate(domain.RoleSuperuser, auth.PermViewReports)).To(BeFalse())
	})

	It("does not match an empty viewer id against a ticket", func() {
		orphan := &domain.Ticket{ID: "t-2"}
		Expect(auth.CanView(domain.RoleUser, "", orphan)).To(BeFalse())
		Expect(auth.CanView(domain.RoleUser, "owner", nil)).To(BeFalse())
	})

	Describe("routes", func() {
		paths := func(role domain.Role) []string {
			var out []string
			for _, r := range auth.AllowedRoutes(role) {
				out = append(out, r.Path)
			}
			return out
		}

		It("gives users only the self-service screens", func() {
			Expect(paths(domain.RoleUser)).To(Equal([]string{"/", "/submit-ticket", "/my-tickets", "/knowledge-base"}))
		})

		It("adds triage screens for officers and the directory for admins", func() {
			Expect(paths(domain.RoleICTOfficer)).To(ContainElements("/tickets", "/reports"))
			Expect(paths(domain.RoleICTOfficer)).NotTo(ContainElement("/users"))
			Expect(paths(domain.RoleAdmin)).To(ContainElement("/users"))
			Expect(paths(domain.RoleAdmin)).NotTo(ContainElement("/settings"))
		})

		It("gives superusers every screen", func() {
			Expect(paths(domain.RoleSuperuser)).To(HaveLen(8))
			Expect(auth.CanAccessRoute(domain.RoleSuperuser, "/settings")).To(BeTrue())
		})

		It("denies unknown paths", func() {
			Expect(auth.CanAccessRoute(domain.RoleSuperuser, "/nowhere")).To(BeFalse())
		})
	})
})
