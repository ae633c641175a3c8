package subscription

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUsers map[primitive.ObjectID]models.User

func (f fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return models.User{}, errors.New("not found")
}

func gateHandler(users AdminLoader, now time.Time) http.Handler {
	mw := Gate(users, zap.NewNop(), func() time.Time { return now })
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func memberReq(tenant primitive.ObjectID, role string) *http.Request {
	return auth.WithTestUser(httptest.NewRequest("GET", "/api/v1/tasks", nil), &auth.AuthUser{
		ID:       primitive.NewObjectID().Hex(),
		Role:     role,
		TenantID: tenant.Hex(),
	})
}

func TestGateBlocksExpiredWorkspace(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-24 * time.Hour)
	adminID := primitive.NewObjectID()
	users := fakeUsers{adminID: {ID: adminID, Role: models.RoleAdmin, SubscriptionExpiry: &expiry}}

	rec := httptest.NewRecorder()
	gateHandler(users, now).ServeHTTP(rec, memberReq(adminID, models.RoleEmployee))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expired workspace member: got %d, want 403", rec.Code)
	}
}

func TestGateAllowsActiveWorkspace(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(30 * 24 * time.Hour)
	adminID := primitive.NewObjectID()
	users := fakeUsers{adminID: {ID: adminID, Role: models.RoleAdmin, SubscriptionExpiry: &expiry}}

	rec := httptest.NewRecorder()
	gateHandler(users, now).ServeHTTP(rec, memberReq(adminID, models.RoleManager))
	if rec.Code != http.StatusOK {
		t.Errorf("active workspace member: got %d, want 200", rec.Code)
	}
}

func TestGateBypassesAdminRoles(t *testing.T) {
	now := time.Now()
	expiry := now.Add(-time.Hour)
	adminID := primitive.NewObjectID()
	users := fakeUsers{adminID: {ID: adminID, Role: models.RoleAdmin, SubscriptionExpiry: &expiry}}

	// The expired admin can still reach billing to renew.
	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/api/v1/payments/plans", nil), &auth.AuthUser{
		ID:       adminID.Hex(),
		Role:     models.RoleAdmin,
		TenantID: adminID.Hex(),
	})
	gateHandler(users, now).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expired admin: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = auth.WithTestUser(httptest.NewRequest("GET", "/api/v1/superadmin/stats", nil), &auth.AuthUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: models.RoleSuperAdmin,
	})
	gateHandler(users, now).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("superadmin: got %d, want 200", rec.Code)
	}
}
