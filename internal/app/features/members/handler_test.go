package members_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/features/members"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.uber.org/zap"
)

func TestSeatLimitBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := members.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 2)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))

	add := func(name, email string) *httptest.ResponseRecorder {
		req := testutil.JSONRequest(t, "POST", "/api/v1/members", map[string]any{
			"full_name": name,
			"email":     email,
			"password":  "long enough pw",
			"role":      "employee",
		})
		rec := httptest.NewRecorder()
		h.HandleAdd(rec, testutil.AsUser(req, admin))
		return rec
	}

	// Seats 1 and 2 fill fine.
	if rec := add("One", "one@x.com"); rec.Code != http.StatusCreated {
		t.Fatalf("first add: %d %s", rec.Code, rec.Body.String())
	}
	if rec := add("Two", "two@x.com"); rec.Code != http.StatusCreated {
		t.Fatalf("second add: %d %s", rec.Code, rec.Body.String())
	}

	// At the limit the next add is rejected.
	rec := add("Three", "three@x.com")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("over-limit add: %d %s", rec.Code, rec.Body.String())
	}
	env := testutil.DecodeEnvelope(t, rec, nil)
	if env.Success {
		t.Error("over-limit add reported success")
	}
}

func TestApproveCountsAgainstSeatLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := members.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 1)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))

	// A pending join request already holds the only seat.
	pending := fx.CreatePendingMember(ctx, "Waiting", "wait@x.com", models.RoleEmployee, admin.ID)

	req := testutil.JSONRequest(t, "POST", "/api/v1/members/"+pending.ID.Hex()+"/approve", nil)
	req = testutil.WithChiURLParam(req, "id", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleApprove(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", rec.Code, rec.Body.String())
	}

	got, err := h.Users.GetMember(ctx, admin.ID, pending.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Status != models.UserStatusActive {
		t.Errorf("status after approve = %q", got.Status)
	}
}

func TestApproveRejectedWhenOverSubscribed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := members.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A downgrade can leave a workspace holding more seats than its plan
	// allows. Approving yet another member must fail at the grant.
	plan := fx.CreatePlan(ctx, "starter", 1)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	fx.CreateMember(ctx, "Kept", "kept@x.com", models.RoleEmployee, admin.ID)
	pending := fx.CreatePendingMember(ctx, "Waiting", "wait@x.com", models.RoleEmployee, admin.ID)

	req := testutil.JSONRequest(t, "POST", "/api/v1/members/"+pending.ID.Hex()+"/approve", nil)
	req = testutil.WithChiURLParam(req, "id", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleApprove(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("over-subscribed approve: %d %s", rec.Code, rec.Body.String())
	}

	got, err := h.Users.GetMember(ctx, admin.ID, pending.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Status != models.UserStatusPending {
		t.Errorf("status after refused approve = %q", got.Status)
	}
}

func TestRejectFreesSeat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := members.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 1)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	pending := fx.CreatePendingMember(ctx, "Waiting", "wait@x.com", models.RoleEmployee, admin.ID)

	req := testutil.JSONRequest(t, "POST", "/api/v1/members/"+pending.ID.Hex()+"/reject", nil)
	req = testutil.WithChiURLParam(req, "id", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleReject(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: %d %s", rec.Code, rec.Body.String())
	}

	// The freed seat admits a direct add.
	addReq := testutil.JSONRequest(t, "POST", "/api/v1/members", map[string]any{
		"full_name": "Hired",
		"email":     "hired@x.com",
		"password":  "long enough pw",
		"role":      "sales",
	})
	rec = httptest.NewRecorder()
	h.HandleAdd(rec, testutil.AsUser(addReq, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add after reject: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCrossTenantMemberAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := members.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	other := fx.CreateAdmin(ctx, "Other", "other@x.com", plan, time.Now().Add(30*24*time.Hour))
	member := fx.CreateMember(ctx, "Theirs", "theirs@x.com", models.RoleEmployee, other.ID)

	req := httptest.NewRequest("GET", "/api/v1/members/"+member.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", member.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeView(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-tenant view: %d, want 404", rec.Code)
	}
}
