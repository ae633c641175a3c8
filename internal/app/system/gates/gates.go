// Package gates provides authorization gate functions for HTTP handlers.
//
// Route-level middleware (auth.RequireSignedIn, auth.RequireRole) handles
// coarse access control in routes.go files. Gates are for handlers that
// need the caller's identity, or a role check the route group does not
// already make. Resource-specific checks that need database state live in
// internal/app/policy.
//
// Handlers behind RequireRole middleware should call gates.Current (or
// authz.UserCtx) rather than re-checking the role.
package gates

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the outcome of an authorization gate check.
type Result struct {
	Role     string
	Name     string
	UserID   primitive.ObjectID
	TenantID primitive.ObjectID
	OK       bool
}

// Current returns the caller's identity without any role check, writing a
// 401 when unauthenticated. TenantID is NilObjectID for superadmins.
func Current(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "")
		return Result{OK: false}
	}
	res := Result{Role: role, Name: name, UserID: uid, OK: true}
	if tid, ok := authz.TenantID(r); ok {
		res.TenantID = tid
	}
	return res
}

// RequireRole ensures the caller holds one of the allowed roles, writing
// 401/403 on failure.
func RequireRole(w http.ResponseWriter, r *http.Request, allowed ...string) Result {
	res := Current(w, r)
	if !res.OK {
		return res
	}
	for _, role := range allowed {
		if res.Role == role {
			return res
		}
	}
	respond.Forbidden(w, "")
	return Result{OK: false}
}

// RequireTenant ensures the caller belongs to a workspace (any role but
// superadmin), writing 401/403 on failure. Handlers use the returned
// TenantID to scope every store call.
func RequireTenant(w http.ResponseWriter, r *http.Request) Result {
	res := Current(w, r)
	if !res.OK {
		return res
	}
	if res.TenantID.IsZero() {
		respond.Forbidden(w, "No workspace for this account")
		return Result{OK: false}
	}
	return res
}
