// Package memberpolicy provides authorization policies for workspace
// member management.
//
// Authorization rules:
//   - Admins manage every member of their workspace: approve or reject
//     join requests, add, disable, and delete members, send invites
//   - Managers can list members (to assign work) but not change them
//   - Sales and employees see only their own profile
package memberpolicy

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanListMembers reports whether the current user can list workspace
// members.
func CanListMembers(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleAdmin || role == models.RoleManager
}

// CanViewMember reports whether the current user can read the member's
// profile. Everyone can read their own.
func CanViewMember(r *http.Request, memberID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin || role == models.RoleManager {
		return true
	}
	return uid == memberID
}

// CanManageMembers reports whether the current user can change membership:
// approvals, invites, role edits, disables, deletes. Admin only.
func CanManageMembers(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	return ok && role == models.RoleAdmin
}
