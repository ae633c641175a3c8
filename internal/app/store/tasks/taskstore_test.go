package taskstore

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSeedsSubTasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	a1, a2 := primitive.NewObjectID(), primitive.NewObjectID()

	task, err := store.Create(ctx, models.Task{
		TenantID:   tenant,
		Project:    primitive.NewObjectID(),
		Title:      "Build the thing",
		AssignedTo: []primitive.ObjectID{a1, a2},
		CreatedBy:  primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(task.SubTasks) != 2 {
		t.Fatalf("subtasks = %d, want one per assignee", len(task.SubTasks))
	}
	for _, st := range task.SubTasks {
		if st.Status != models.TaskTodo || st.Progress != 0 {
			t.Errorf("subtask not seeded at zero: %+v", st)
		}
	}
	if len(task.ActivityLog) != 1 || task.ActivityLog[0].Action != "created" {
		t.Errorf("activity log = %+v", task.ActivityLog)
	}
}

func TestMarkOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	project := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	past := fx.CreateTask(ctx, tenant, project, assignee, "Late", models.TaskInProgress)
	done := fx.CreateTask(ctx, tenant, project, assignee, "Done", models.TaskCompleted)
	future := fx.CreateTask(ctx, tenant, project, assignee, "Future", models.TaskTodo)

	// Backdate two deadlines.
	now := time.Now()
	old := now.Add(-48 * time.Hour)
	for _, id := range []primitive.ObjectID{past.ID, done.ID} {
		tk := mustGet(t, store, ctx, tenant, id)
		tk.Deadline = &old
		if err := store.Replace(ctx, tk); err != nil {
			t.Fatalf("Replace: %v", err)
		}
	}

	n, err := store.MarkOverdue(ctx, now)
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 1 {
		t.Errorf("flipped %d tasks, want 1 (completed and future stay)", n)
	}

	got, _ := store.Get(ctx, tenant, past.ID)
	if got.Status != models.TaskOverdue {
		t.Errorf("late task status = %q", got.Status)
	}
	got, _ = store.Get(ctx, tenant, done.ID)
	if got.Status != models.TaskCompleted {
		t.Errorf("completed task flipped to %q", got.Status)
	}
	got, _ = store.Get(ctx, tenant, future.ID)
	if got.Status != models.TaskTodo {
		t.Errorf("future task flipped to %q", got.Status)
	}
}

func TestDeleteByProjectCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	projectA := primitive.NewObjectID()
	projectB := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	fx.CreateTask(ctx, tenant, projectA, assignee, "A1", models.TaskTodo)
	fx.CreateTask(ctx, tenant, projectA, assignee, "A2", models.TaskInProgress)
	keep := fx.CreateTask(ctx, tenant, projectB, assignee, "B1", models.TaskTodo)

	n, err := store.DeleteByProject(ctx, tenant, projectA)
	if err != nil {
		t.Fatalf("DeleteByProject: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	if _, err := store.Get(ctx, tenant, keep.ID); err != nil {
		t.Errorf("unrelated project's task deleted: %v", err)
	}
}

func mustGet(t *testing.T, store *Store, ctx context.Context, tenant, id primitive.ObjectID) models.Task {
	t.Helper()
	task, err := store.Get(ctx, tenant, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return task
}
