package tasks_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/features/tasks"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestSubTaskUpdateRecomputesProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := tasks.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)
	bob := fx.CreateMember(ctx, "Bob", "bob@x.com", models.RoleEmployee, admin.ID)
	proj := fx.CreateProject(ctx, admin.ID, "Website")

	created, err := h.Tasks.Create(ctx, models.Task{
		TenantID:   admin.ID,
		Project:    proj.ID,
		Title:      "Build the thing",
		AssignedTo: []primitive.ObjectID{alice.ID, bob.ID},
		CreatedBy:  admin.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	update := func(u models.User, status string, progress int) *httptest.ResponseRecorder {
		req := testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+created.ID.Hex()+"/subtask",
			map[string]any{"status": status, "progress": progress})
		req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleUpdateSubTask(rec, testutil.AsUser(req, u))
		return rec
	}

	// Alice finishes her half: progress is the mean, status stays put.
	rec := update(alice, models.TaskCompleted, 100)
	if rec.Code != http.StatusOK {
		t.Fatalf("alice subtask: %d %s", rec.Code, rec.Body.String())
	}
	var got models.Task
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Progress != 50 {
		t.Errorf("progress = %d, want 50", got.Progress)
	}
	if got.Status == models.TaskReview {
		t.Error("task escalated to review before every subtask was done")
	}

	// Bob finishes too: mean hits 100 and the task escalates to review.
	rec = update(bob, models.TaskCompleted, 100)
	if rec.Code != http.StatusOK {
		t.Fatalf("bob subtask: %d %s", rec.Code, rec.Body.String())
	}
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Progress != 100 || got.Status != models.TaskReview {
		t.Errorf("progress=%d status=%q, want 100/review", got.Progress, got.Status)
	}
}

func TestSubTaskOwnSliceOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := tasks.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)
	bob := fx.CreateMember(ctx, "Bob", "bob@x.com", models.RoleEmployee, admin.ID)
	proj := fx.CreateProject(ctx, admin.ID, "Website")

	created, err := h.Tasks.Create(ctx, models.Task{
		TenantID:   admin.ID,
		Project:    proj.ID,
		Title:      "Build the thing",
		AssignedTo: []primitive.ObjectID{alice.ID, bob.ID},
		CreatedBy:  admin.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Alice pushing Bob's slice is refused.
	req := testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+created.ID.Hex()+"/subtask",
		map[string]any{"assignee_id": bob.ID.Hex(), "status": models.TaskCompleted, "progress": 100})
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdateSubTask(rec, testutil.AsUser(req, alice))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-assignee subtask: %d, want 403", rec.Code)
	}

	// An admin can.
	req = testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+created.ID.Hex()+"/subtask",
		map[string]any{"assignee_id": bob.ID.Hex(), "status": models.TaskInProgress, "progress": 40})
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdateSubTask(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin subtask adjust: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRequiresProjectInWorkspace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := tasks.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	other := fx.CreateAdmin(ctx, "Other", "other@x.com", plan, time.Now().Add(30*24*time.Hour))
	emp := fx.CreateMember(ctx, "Emp", "emp@x.com", models.RoleEmployee, admin.ID)
	foreign := fx.CreateProject(ctx, other.ID, "Theirs")

	req := testutil.JSONRequest(t, "POST", "/api/v1/tasks", map[string]any{
		"project":     foreign.ID.Hex(),
		"title":       "Sneaky",
		"assigned_to": []string{emp.ID.Hex()},
	})
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("task into foreign project: %d, want 400", rec.Code)
	}
}
