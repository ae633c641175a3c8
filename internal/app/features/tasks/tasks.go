package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/policy/taskpolicy"
	projectstore "github.com/dalemusser/dintask/internal/app/store/projects"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func validTaskStatus(s string) bool {
	switch s {
	case models.TaskTodo, models.TaskInProgress, models.TaskReview,
		models.TaskCompleted, models.TaskOnHold, models.TaskOverdue:
		return true
	}
	return false
}

// ServeList returns the caller's slice of the task list: the workspace
// for admin and managers, own assignments for everyone else.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	scope := taskpolicy.CanListTasks(r)
	if !scope.CanList {
		respond.Forbidden(w, "")
		return
	}

	f := taskstore.Filter{
		Status: query.Get(r, "status"),
		Search: query.Get(r, "search"),
	}
	if pid := query.Get(r, "project"); pid != "" {
		id, err := primitive.ObjectIDFromHex(pid)
		if err != nil {
			respond.BadRequest(w, "Invalid project id")
			return
		}
		f.Project = &id
	}
	if scope.OwnOnly {
		f.Assignee = &scope.UserID
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	tasks, total, err := h.Tasks.List(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("tasks: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, tasks, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeStats returns task counts per status; members get their own
// counts, admin and managers the workspace's.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	scope := taskpolicy.CanListTasks(r)
	if !scope.CanList {
		respond.Forbidden(w, "")
		return
	}

	var assignee *primitive.ObjectID
	if scope.OwnOnly {
		assignee = &scope.UserID
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	counts, err := h.Tasks.CountByStatus(ctx, cur.TenantID, assignee)
	if err != nil {
		h.Log.Error("tasks: stats", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, counts)
}

// loadTask fetches the task named by {id} and checks visibility.
func (h *Handler) loadTask(w http.ResponseWriter, r *http.Request) (models.Task, bool) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return models.Task{}, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid task id")
		return models.Task{}, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	t, err := h.Tasks.Get(ctx, cur.TenantID, id)
	if errors.Is(err, taskstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.Task{}, false
	}
	if err != nil {
		respond.Internal(w)
		return models.Task{}, false
	}
	if !taskpolicy.CanViewTask(r, t) {
		respond.NotFound(w, "")
		return models.Task{}, false
	}
	return t, true
}

// ServeView returns one task with its subtasks and activity log.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

type taskRequest struct {
	Project     string     `json:"project"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssignedTo  []string   `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
}

func parseAssignees(raw []string) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

// HandleCreate adds a task to a project. The store seeds one subtask per
// assignee; assignees get a notification.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req taskRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Title == "" {
		respond.BadRequest(w, "Title is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		respond.BadRequest(w, "A task needs a project")
		return
	}
	assignees, ok := parseAssignees(req.AssignedTo)
	if !ok {
		respond.BadRequest(w, "Invalid assignee id")
		return
	}
	if len(assignees) == 0 {
		respond.BadRequest(w, "A task needs at least one assignee")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	// The project must exist in this workspace.
	if _, err := h.Projects.Get(ctx, cur.TenantID, projectID); err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			respond.BadRequest(w, "Project not found")
			return
		}
		respond.Internal(w)
		return
	}

	t, err := h.Tasks.Create(ctx, models.Task{
		TenantID:    cur.TenantID,
		Project:     projectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  assignees,
		Deadline:    req.Deadline,
		CreatedBy:   cur.UserID,
	})
	if err != nil {
		h.Log.Error("tasks: create", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.notifyAssignees(ctx, t, cur.UserID, "task_assigned", "New task assigned")
	respond.JSON(w, http.StatusCreated, t)
}

// HandleUpdate edits a task's fields and reassignments.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	if !taskpolicy.CanManageTask(r) {
		respond.Forbidden(w, "")
		return
	}
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req taskRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Title == "" {
		respond.BadRequest(w, "Title is required")
		return
	}
	assignees, okIDs := parseAssignees(req.AssignedTo)
	if !okIDs {
		respond.BadRequest(w, "Invalid assignee id")
		return
	}
	if len(assignees) == 0 {
		respond.BadRequest(w, "A task needs at least one assignee")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err := h.Tasks.Update(ctx, t.TenantID, t.ID, taskstore.Update{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  assignees,
		Deadline:    req.Deadline,
	}, cur.UserID)
	if err != nil {
		h.Log.Error("tasks: update", zap.Error(err))
		respond.Internal(w)
		return
	}

	// Seed subtasks for anyone new to the task.
	updated, err := h.Tasks.Get(ctx, t.TenantID, t.ID)
	if err == nil {
		changed := false
		for _, a := range updated.AssignedTo {
			found := false
			for _, st := range updated.SubTasks {
				if st.AssigneeID == a {
					found = true
					break
				}
			}
			if !found {
				updated.SubTasks = append(updated.SubTasks, models.SubTask{
					AssigneeID: a,
					Status:     models.TaskTodo,
					UpdatedAt:  time.Now(),
				})
				changed = true
			}
		}
		if changed {
			updated.RecomputeProgress()
			if err := h.Tasks.Replace(ctx, updated); err != nil {
				h.Log.Warn("tasks: seed subtasks", zap.Error(err))
			}
		}
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Task updated"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus moves a task to a new status.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	if !taskpolicy.CanManageTask(r) {
		respond.Forbidden(w, "")
		return
	}
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req statusRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !validTaskStatus(req.Status) {
		respond.BadRequest(w, "Unknown task status")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Tasks.SetStatus(ctx, t.TenantID, t.ID, req.Status, cur.UserID); err != nil {
		h.Log.Error("tasks: set status", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// HandleDelete removes a task.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	if !taskpolicy.CanManageTask(r) {
		respond.Forbidden(w, "")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Tasks.Delete(ctx, t.TenantID, t.ID); err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
