package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtxAnonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	role, name, uid, ok := UserCtx(r)
	if ok {
		t.Fatal("ok: got true for anonymous request")
	}
	if role != "visitor" || name != "" || uid != primitive.NilObjectID {
		t.Errorf("got (%q, %q, %v)", role, name, uid)
	}
}

func TestUserCtxSignedIn(t *testing.T) {
	id := primitive.NewObjectID()
	tenant := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID:       id.Hex(),
		Name:     "Dana Ruiz",
		Role:     "Manager",
		TenantID: tenant.Hex(),
	})

	role, name, uid, ok := UserCtx(r)
	if !ok {
		t.Fatal("ok: got false")
	}
	if role != "manager" {
		t.Errorf("role: got %q, want lowercased manager", role)
	}
	if name != "Dana Ruiz" || uid != id {
		t.Errorf("got (%q, %v)", name, uid)
	}

	tid, ok := TenantID(r)
	if !ok || tid != tenant {
		t.Errorf("TenantID: got (%v, %v), want (%v, true)", tid, ok, tenant)
	}
}

func TestUserCtxMalformedID(t *testing.T) {
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID:   "not-a-hex-id",
		Role: "admin",
	})
	if _, _, _, ok := UserCtx(r); ok {
		t.Fatal("ok: got true for malformed user id")
	}
}

func TestTenantIDSuperadmin(t *testing.T) {
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.AuthUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "superadmin",
	})
	if _, ok := TenantID(r); ok {
		t.Fatal("TenantID: got ok for superadmin")
	}
	if !IsSuperAdmin(r) {
		t.Fatal("IsSuperAdmin: got false")
	}
}
