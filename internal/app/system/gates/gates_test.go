package gates

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func signedInReq(role string, tenant primitive.ObjectID) *http.Request {
	u := &auth.AuthUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Test User",
		Role: role,
	}
	if !tenant.IsZero() {
		u.TenantID = tenant.Hex()
	}
	return auth.WithTestUser(httptest.NewRequest("GET", "/", nil), u)
}

func TestCurrent(t *testing.T) {
	rec := httptest.NewRecorder()
	res := Current(rec, httptest.NewRequest("GET", "/", nil))
	if res.OK {
		t.Fatal("Current: OK for anonymous caller")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rec.Code)
	}

	tenant := primitive.NewObjectID()
	rec = httptest.NewRecorder()
	res = Current(rec, signedInReq(models.RoleManager, tenant))
	if !res.OK || res.Role != models.RoleManager || res.TenantID != tenant {
		t.Errorf("Current = %+v", res)
	}
}

func TestRequireRole(t *testing.T) {
	tenant := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	res := RequireRole(rec, signedInReq(models.RoleEmployee, tenant), models.RoleAdmin, models.RoleManager)
	if res.OK {
		t.Fatal("RequireRole: OK for disallowed role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	res = RequireRole(rec, signedInReq(models.RoleAdmin, tenant), models.RoleAdmin, models.RoleManager)
	if !res.OK {
		t.Fatal("RequireRole: not OK for allowed role")
	}
}

func TestRequireTenant(t *testing.T) {
	rec := httptest.NewRecorder()
	res := RequireTenant(rec, signedInReq(models.RoleSuperAdmin, primitive.NilObjectID))
	if res.OK {
		t.Fatal("RequireTenant: OK for superadmin with no workspace")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rec.Code)
	}

	tenant := primitive.NewObjectID()
	rec = httptest.NewRecorder()
	res = RequireTenant(rec, signedInReq(models.RoleSales, tenant))
	if !res.OK || res.TenantID != tenant {
		t.Errorf("RequireTenant = %+v", res)
	}
}
