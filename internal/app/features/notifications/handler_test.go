package notifications_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/features/notifications"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.uber.org/zap"
)

func TestReadFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := notifications.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	emp := fx.CreateMember(ctx, "Emp", "emp@x.com", models.RoleEmployee, admin.ID)

	var first models.Notification
	for i, title := range []string{"one", "two", "three"} {
		n, err := h.Notifications.Create(ctx, models.Notification{
			TenantID:  admin.ID,
			Recipient: emp.ID,
			Kind:      "task_assigned",
			Title:     title,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if i == 0 {
			first = n
		}
	}

	rec := httptest.NewRecorder()
	h.ServeUnreadCount(rec, testutil.AsUser(httptest.NewRequest("GET", "/api/v1/notifications/unread-count", nil), emp))
	var count map[string]int64
	testutil.DecodeEnvelope(t, rec, &count)
	if count["unread"] != 3 {
		t.Fatalf("unread = %d, want 3", count["unread"])
	}

	// Another user cannot acknowledge someone else's notification.
	req := testutil.JSONRequest(t, "POST", "/api/v1/notifications/"+first.ID.Hex()+"/read", nil)
	req = testutil.WithChiURLParam(req, "id", first.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleMarkRead(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign mark-read: %d, want 404", rec.Code)
	}

	req = testutil.JSONRequest(t, "POST", "/api/v1/notifications/"+first.ID.Hex()+"/read", nil)
	req = testutil.WithChiURLParam(req, "id", first.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleMarkRead(rec, testutil.AsUser(req, emp))
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", rec.Code, rec.Body.String())
	}

	// unread=true now returns two.
	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.AsUser(httptest.NewRequest("GET", "/api/v1/notifications?unread=true", nil), emp))
	var notes []models.Notification
	env := testutil.DecodeEnvelope(t, rec, &notes)
	if len(notes) != 2 {
		t.Fatalf("unread list = %d, want 2", len(notes))
	}
	if env.Meta == nil || env.Meta.Total != 2 {
		t.Errorf("meta total wrong: %+v", env.Meta)
	}

	rec = httptest.NewRecorder()
	h.HandleMarkAllRead(rec, testutil.AsUser(testutil.JSONRequest(t, "POST", "/api/v1/notifications/read-all", nil), emp))
	var marked map[string]int64
	testutil.DecodeEnvelope(t, rec, &marked)
	if marked["marked"] != 2 {
		t.Errorf("marked = %d, want 2", marked["marked"])
	}
}
