package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager(testSecret, time.Hour, NewMemoryDenylist())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestIssueAndParse(t *testing.T) {
	mgr := testManager(t)

	tenant := primitive.NewObjectID()
	u := models.User{
		ID:       primitive.NewObjectID(),
		Role:     models.RoleSales,
		TenantID: &tenant,
	}

	token, err := mgr.Issue(u, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != u.ID.Hex() {
		t.Errorf("subject: got %q, want %q", claims.Subject, u.ID.Hex())
	}
	if claims.Role != models.RoleSales {
		t.Errorf("role: got %q, want %q", claims.Role, models.RoleSales)
	}
	if claims.TenantID != tenant.Hex() {
		t.Errorf("tenant: got %q, want %q", claims.TenantID, tenant.Hex())
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mgr := testManager(t)
	other, err := NewManager("another-secret-another-secret-xx", time.Hour, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, err := other.Issue(models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Parse(token); err == nil {
		t.Fatal("Parse accepted a token signed with a different secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := testManager(t)

	token, err := mgr.Issue(models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin},
		time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Parse(token); err == nil {
		t.Fatal("Parse accepted an expired token")
	}
}

func TestRevokedTokenIsRejected(t *testing.T) {
	mgr := testManager(t)

	token, err := mgr.Issue(models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := mgr.Revoke(claims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := mgr.Parse(token); err == nil {
		t.Fatal("Parse accepted a revoked token")
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedIn(t *testing.T) {
	h := RequireSignedIn(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &AuthUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleEmployee})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: got %d, want 200", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin, models.RoleManager)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest("GET", "/", nil), &AuthUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleSales})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: got %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = WithTestUser(httptest.NewRequest("GET", "/", nil), &AuthUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleManager})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed role: got %d, want 200", rec.Code)
	}
}
