package models

import "strings"

// Roles recognized by DinTask. A workspace is owned by exactly one admin;
// managers, sales reps, and employees are members of that workspace.
// Superadmins operate the platform and are not workspace-scoped.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSales      = "sales"
	RoleEmployee   = "employee"
)

// roleAliases maps legacy role spellings, still sent by older clients,
// onto the canonical role strings.
var roleAliases = map[string]string{
	"sales_executive": RoleSales,
	"salesexecutive":  RoleSales,
	"super_admin":     RoleSuperAdmin,
}

// NormalizeRole lowercases a role string and resolves legacy aliases.
// Returns the canonical role and whether it is one DinTask knows about.
func NormalizeRole(role string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(role))
	if canonical, ok := roleAliases[r]; ok {
		r = canonical
	}
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee:
		return r, true
	}
	return r, false
}

// MemberRoles lists the workspace member roles, for $in queries.
var MemberRoles = []string{RoleManager, RoleSales, RoleEmployee}

// IsMemberRole reports whether the role is a workspace member role, i.e.
// one that carries a tenant_id pointing at its owning admin.
func IsMemberRole(role string) bool {
	return role == RoleManager || role == RoleSales || role == RoleEmployee
}
