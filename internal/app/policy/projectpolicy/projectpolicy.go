// Package projectpolicy provides authorization policies for projects.
//
// Authorization rules:
//   - Admins manage every project in their workspace
//   - Managers manage projects they are assigned to and can view the rest
//   - Sales users can view projects converted from their leads
//   - Employees can view projects they have tasks in (checked by the
//     handler via the task store, not here)
package projectpolicy

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/domain/models"
)

// CanListProjects reports whether the current user can list workspace
// projects at all. Every workspace role can; the handler narrows the
// result set for non-managers.
func CanListProjects(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee:
		return true
	}
	return false
}

// CanViewProject reports whether the current user can read the project.
func CanViewProject(r *http.Request, p models.Project) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true
	case models.RoleSales:
		return p.SalesRep == uid
	case models.RoleEmployee:
		// Membership through tasks is resolved by the handler.
		return true
	}
	return false
}

// CanManageProject reports whether the current user can edit the project.
func CanManageProject(r *http.Request, p models.Project) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return p.Manager == uid
	}
	return false
}

// CanDeleteProject reports whether the current user can delete the project
// and cascade its tasks. Admin only.
func CanDeleteProject(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && role == models.RoleAdmin
}
