package schedules_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/features/schedules"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.uber.org/zap"
)

func TestCreateMapsOverlapToConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := schedules.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	emp := fx.CreateMember(ctx, "Emp", "emp@x.com", models.RoleEmployee, admin.ID)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	create := func(start, end time.Time) *httptest.ResponseRecorder {
		req := testutil.JSONRequest(t, "POST", "/api/v1/schedules", map[string]any{
			"title":     "Client visit",
			"member_id": emp.ID.Hex(),
			"start_at":  start,
			"end_at":    end,
		})
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, testutil.AsUser(req, admin))
		return rec
	}

	if rec := create(base, base.Add(2*time.Hour)); rec.Code != http.StatusCreated {
		t.Fatalf("first entry: %d %s", rec.Code, rec.Body.String())
	}

	// Straddling the existing entry conflicts.
	if rec := create(base.Add(time.Hour), base.Add(3*time.Hour)); rec.Code != http.StatusConflict {
		t.Fatalf("overlapping entry: %d, want 409", rec.Code)
	}

	// Back-to-back is fine: intervals are half-open.
	if rec := create(base.Add(2*time.Hour), base.Add(3*time.Hour)); rec.Code != http.StatusCreated {
		t.Fatalf("adjacent entry: %d %s", rec.Code, rec.Body.String())
	}

	// Inverted range is a bad request, not a conflict.
	if rec := create(base.Add(5*time.Hour), base.Add(4*time.Hour)); rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: %d, want 400", rec.Code)
	}
}

func TestMembersSeeOnlyTheirCalendar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := schedules.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)
	bob := fx.CreateMember(ctx, "Bob", "bob@x.com", models.RoleEmployee, admin.ID)

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	mk := func(member models.User, hour int) models.Schedule {
		e, err := h.Schedules.Create(ctx, models.Schedule{
			TenantID: admin.ID,
			Title:    "Shift",
			MemberID: member.ID,
			StartAt:  base.Add(time.Duration(hour) * time.Hour),
			EndAt:    base.Add(time.Duration(hour+1) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return e
	}
	mk(alice, 0)
	bobs := mk(bob, 0)

	rec := httptest.NewRecorder()
	h.ServeList(rec, testutil.AsUser(httptest.NewRequest("GET", "/api/v1/schedules", nil), alice))
	var entries []models.Schedule
	testutil.DecodeEnvelope(t, rec, &entries)
	if len(entries) != 1 || entries[0].MemberID != alice.ID {
		t.Fatalf("alice sees %d entries", len(entries))
	}

	// Alice reading Bob's entry by id gets a 404.
	req := httptest.NewRequest("GET", "/api/v1/schedules/"+bobs.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", bobs.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeView(rec, testutil.AsUser(req, alice))
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-member view: %d, want 404", rec.Code)
	}

	// Admin sees everyone.
	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.AsUser(httptest.NewRequest("GET", "/api/v1/schedules", nil), admin))
	testutil.DecodeEnvelope(t, rec, &entries)
	if len(entries) != 2 {
		t.Errorf("admin sees %d entries, want 2", len(entries))
	}
}
