package domain

import "strings"

// Role is the single permission level carried by a profile.
type Role string

const (
	RoleUser       Role = "user"
	RoleICTOfficer Role = "ict_officer"
	RoleAdmin      Role = "admin"
	RoleSuperuser  Role = "superuser"
)

// Roles lists every role in ascending order of scope.
var Roles = []Role{RoleUser, RoleICTOfficer, RoleAdmin, RoleSuperuser}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleICTOfficer, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to help-desk staff.
func (r Role) IsStaff() bool {
	return r == RoleICTOfficer || r == RoleAdmin || r == RoleSuperuser
}

// ParseRole normalizes s into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	return role, role.Valid()
}
