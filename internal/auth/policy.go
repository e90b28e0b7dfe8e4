package auth

import (
	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// Permission names an action guarded by the role policy.
type Permission string

const (
	PermViewOwnTickets  Permission = "view_own_tickets"
	PermCreateTicket    Permission = "create_ticket"
	PermViewAllTickets  Permission = "view_all_tickets"
	PermUpdateStatus    Permission = "update_ticket_status"
	PermUpdatePriority  Permission = "update_ticket_priority"
	PermAssignTicket    Permission = "assign_ticket"
	PermViewReports     Permission = "view_reports"
	PermViewUsers       Permission = "view_user_directory"
	PermManageUserRoles Permission = "manage_user_roles"
	PermManageSettings  Permission = "manage_settings"
)

var selfService = []Permission{PermViewOwnTickets, PermCreateTicket}

var triage = []Permission{PermViewAllTickets, PermUpdateStatus, PermUpdatePriority, PermAssignTicket, PermViewReports}

// rolePermissions is the only place role capabilities are defined.
var rolePermissions = map[domain.Role]map[Permission]struct{}{
	domain.RoleUser:       permissionSet(selfService),
	domain.RoleICTOfficer: permissionSet(selfService, triage),
	domain.RoleAdmin:      permissionSet(selfService, triage, []Permission{PermViewUsers}),
	domain.RoleSuperuser:  permissionSet(selfService, triage, []Permission{PermViewUsers, PermManageUserRoles, PermManageSettings}),
}

// ticketMutations are the permissions that change an existing ticket.
var ticketMutations = map[Permission]struct{}{
	PermUpdateStatus:   {},
	PermUpdatePriority: {},
	PermAssignTicket:   {},
}

func permissionSet(groups ...[]Permission) map[Permission]struct{} {
	set := map[Permission]struct{}{}
	for _, group := range groups {
		for _, p := range group {
			set[p] = struct{}{}
		}
	}
	return set
}

// Can reports whether role holds permission. Unknown roles hold nothing.
func Can(role domain.Role, permission Permission) bool {
	_, ok := rolePermissions[role][permission]
	return ok
}

// CanView reports whether a viewer may read ticket.
func CanView(role domain.Role, viewerID string, ticket *domain.Ticket) bool {
	if ticket == nil {
		return false
	}
	if Can(role, PermViewAllTickets) {
		return true
	}
	return Can(role, PermViewOwnTickets) && viewerID != "" && ticket.SubmittedBy.ID == viewerID
}

// CanMutate reports whether role may perform a ticket mutation.
func CanMutate(role domain.Role, permission Permission) bool {
	if _, ok := ticketMutations[permission]; !ok {
		return false
	}
	return Can(role, permission)
}

// CanAccessUserDirectory reports whether role may list user profiles.
func CanAccessUserDirectory(role domain.Role) bool {
	return Can(role, PermViewUsers)
}

// CanManageSettings reports whether role may change system settings.
func CanManageSettings(role domain.Role) bool {
	return Can(role, PermManageSettings)
}

// Route is a client screen gated by a permission.
type Route struct {
	Path       string
	Label      string
	Permission Permission
}

var routes = []Route{
	{Path: "/", Label: "Dashboard", Permission: PermViewOwnTickets},
	{Path: "/submit-ticket", Label: "Submit Ticket", Permission: PermCreateTicket},
	{Path: "/my-tickets", Label: "My Tickets", Permission: PermViewOwnTickets},
	{Path: "/knowledge-base", Label: "Knowledge Base", Permission: PermViewOwnTickets},
	{Path: "/tickets", Label: "All Tickets", Permission: PermViewAllTickets},
	{Path: "/reports", Label: "Reports", Permission: PermViewReports},
	{Path: "/users", Label: "User Management", Permission: PermViewUsers},
	{Path: "/settings", Label: "Settings", Permission: PermManageSettings},
}

// AllowedRoutes lists the screens role may open, in menu order.
func AllowedRoutes(role domain.Role) []Route {
	out := make([]Route, 0, len(routes))
	for _, route := range routes {
		if Can(role, route.Permission) {
			out = append(out, route)
		}
	}
	return out
}

// CanAccessRoute reports whether role may open path. Unknown paths are denied.
func CanAccessRoute(role domain.Role, path string) bool {
	for _, route := range routes {
		if route.Path == path {
			return Can(role, route.Permission)
		}
	}
	return false
}
