// Package leadpolicy provides authorization policies for the sales pipeline.
//
// Authorization rules:
//   - Admins and managers see and manage every lead in their workspace
//   - Sales users see and manage only leads where they are the sales rep
//   - Employees have no CRM access
package leadpolicy

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope describes which leads the current user may list.
type ListScope struct {
	CanList bool
	// OwnOnly restricts the list to leads whose sales rep is the user.
	OwnOnly bool
	UserID  primitive.ObjectID
}

// CanListLeads determines the CRM list scope for the current user.
func CanListLeads(r *http.Request) ListScope {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return ListScope{}
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return ListScope{CanList: true}
	case models.RoleSales:
		return ListScope{CanList: true, OwnOnly: true, UserID: uid}
	default:
		return ListScope{}
	}
}

// CanViewLead reports whether the current user can read the lead.
func CanViewLead(r *http.Request, lead models.Lead) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true
	case models.RoleSales:
		return lead.SalesRep == uid
	default:
		return false
	}
}

// CanManageLead reports whether the current user can edit or delete the
// lead. Same rules as viewing.
func CanManageLead(r *http.Request, lead models.Lead) bool {
	return CanViewLead(r, lead)
}

// CanRequestApproval reports whether the current user may ask for the lead
// to be converted into a project. The sales owner raises the request;
// admins and managers can raise it on a rep's behalf.
func CanRequestApproval(r *http.Request, lead models.Lead) bool {
	return CanViewLead(r, lead)
}

// CanApproveProject reports whether the current user can approve or reject
// a pending lead-to-project conversion. Admin only.
func CanApproveProject(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && role == models.RoleAdmin
}
