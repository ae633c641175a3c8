// Package ticketpolicy provides authorization policies for support
// tickets.
//
// Authorization rules:
//   - Any workspace user can raise a ticket and read their own
//   - Admins handle every non-escalated ticket in their workspace
//   - Superadmins handle escalated (admin-raised) tickets platform-wide
package ticketpolicy

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/domain/models"
)

// CanViewTicket reports whether the current user can read the ticket and
// its response thread.
func CanViewTicket(r *http.Request, t models.SupportTicket) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return t.Escalated
	}
	if t.RaisedBy == uid {
		return true
	}
	return role == models.RoleAdmin && !t.Escalated
}

// CanRespond reports whether the current user can append to the ticket
// thread. The raiser keeps the conversation going; the handling side is
// the workspace admin, or a superadmin for escalated tickets.
func CanRespond(r *http.Request, t models.SupportTicket) bool {
	return CanViewTicket(r, t)
}

// CanSetStatus reports whether the current user can move the ticket
// between statuses. Only the handling side can.
func CanSetStatus(r *http.Request, t models.SupportTicket) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if t.Escalated {
		return role == models.RoleSuperAdmin
	}
	return role == models.RoleAdmin
}
