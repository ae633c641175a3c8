// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false, so ok=true always means a
// valid, authenticated user with a parseable ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, uid, true
}

// TenantID returns the workspace id the caller belongs to: an admin's own
// id or a member's owning-admin id. Superadmins (and anonymous callers)
// have no workspace and return (NilObjectID, false).
func TenantID(r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.TenantID == "" {
		return primitive.NilObjectID, false
	}
	tid, err := primitive.ObjectIDFromHex(user.TenantID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return tid, true
}

// IsSuperAdmin reports whether the caller is a platform superadmin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "superadmin"
}
