package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/dintask/internal/app/store/projects"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/txn"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func validProjectStatus(s string) bool {
	switch s {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted, models.ProjectCancelled:
		return true
	}
	return false
}

// ServeList returns the caller's slice of the project list: everything
// for admin and managers, converted-from-own-leads for sales, and
// has-tasks-in for employees.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	if !projectpolicy.CanListProjects(r) {
		respond.Forbidden(w, "")
		return
	}

	f := projectstore.Filter{
		Status: query.Get(r, "status"),
		Search: query.Get(r, "search"),
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	switch cur.Role {
	case models.RoleSales:
		f.SalesRep = &cur.UserID
	case models.RoleEmployee:
		ids, err := h.Tasks.ProjectIDsForAssignee(ctx, cur.TenantID, cur.UserID)
		if err != nil {
			h.Log.Error("projects: assignee projects", zap.Error(err))
			respond.Internal(w)
			return
		}
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		f.IDs = ids
	}

	projects, total, err := h.Projects.List(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("projects: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, projects, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeStats returns project counts per status.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	counts, err := h.Projects.CountByStatus(ctx, cur.TenantID)
	if err != nil {
		h.Log.Error("projects: stats", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, counts)
}

// loadProject fetches the project named by {id} and checks visibility.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return models.Project{}, false
	}
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respond.BadRequest(w, "Invalid project id")
		return models.Project{}, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	p, err := h.Projects.Get(ctx, cur.TenantID, id)
	if errors.Is(err, projectstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.Project{}, false
	}
	if err != nil {
		respond.Internal(w)
		return models.Project{}, false
	}
	if !projectpolicy.CanViewProject(r, p) {
		respond.NotFound(w, "")
		return models.Project{}, false
	}
	if cur.Role == models.RoleEmployee {
		// Employees see a project only through their task assignments.
		_, n, err := h.Tasks.List(ctx, cur.TenantID, taskstore.Filter{
			Project:  &p.ID,
			Assignee: &cur.UserID,
		}, paging.Params{Page: 1, Limit: 1})
		if err != nil {
			respond.Internal(w)
			return models.Project{}, false
		}
		if n == 0 {
			respond.NotFound(w, "")
			return models.Project{}, false
		}
	}
	return p, true
}

// ServeView returns one project.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

type projectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Manager     string     `json:"manager"`
	SalesRep    string     `json:"sales_rep"`
	BudgetCents int64      `json:"budget_cents"`
	Deadline    *time.Time `json:"deadline"`
}

// HandleCreate adds a project directly, outside the lead-approval path.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req projectRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}
	manager, ok := parseID(req.Manager)
	if !ok {
		respond.BadRequest(w, "Invalid manager id")
		return
	}

	p := models.Project{
		TenantID:    cur.TenantID,
		Name:        req.Name,
		Description: req.Description,
		Manager:     manager,
		BudgetCents: req.BudgetCents,
		Deadline:    req.Deadline,
	}
	if req.SalesRep != "" {
		rep, ok := parseID(req.SalesRep)
		if !ok {
			respond.BadRequest(w, "Invalid sales_rep id")
			return
		}
		p.SalesRep = rep
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	created, err := h.Projects.Create(ctx, p)
	if err != nil {
		h.Log.Error("projects: create", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// HandleUpdate edits a project.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManageProject(r, p) {
		respond.Forbidden(w, "")
		return
	}

	var req projectRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}
	if req.Status != "" && !validProjectStatus(req.Status) {
		respond.BadRequest(w, "Unknown project status")
		return
	}
	manager := p.Manager
	if req.Manager != "" {
		m, ok := parseID(req.Manager)
		if !ok {
			respond.BadRequest(w, "Invalid manager id")
			return
		}
		manager = m
	}
	status := p.Status
	if req.Status != "" {
		status = req.Status
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err := h.Projects.Update(ctx, p.TenantID, p.ID, projectstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Manager:     manager,
		BudgetCents: req.BudgetCents,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.Log.Error("projects: update", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Project updated"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus changes the project status. Putting a project on hold
// pushes on_hold to its unfinished tasks; resuming pushes them back to
// todo.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanManageProject(r, p) {
		respond.Forbidden(w, "")
		return
	}

	var req statusRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !validProjectStatus(req.Status) {
		respond.BadRequest(w, "Unknown project status")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Projects.SetStatus(ctx, p.TenantID, p.ID, req.Status); err != nil {
		h.Log.Error("projects: set status", zap.Error(err))
		respond.Internal(w)
		return
	}

	switch {
	case req.Status == models.ProjectOnHold && p.Status != models.ProjectOnHold:
		if _, err := h.Tasks.SetStatusByProject(ctx, p.TenantID, p.ID, models.TaskOnHold); err != nil {
			h.Log.Warn("projects: push on_hold to tasks", zap.Error(err))
		}
	case req.Status == models.ProjectActive && p.Status == models.ProjectOnHold:
		if _, err := h.Tasks.SetStatusByProject(ctx, p.TenantID, p.ID, models.TaskTodo); err != nil {
			h.Log.Warn("projects: resume tasks", zap.Error(err))
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// HandleDelete removes a project and cascades to its tasks so no task is
// left pointing at a project that no longer exists. Delete and cascade
// share one transaction where the deployment supports them.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if !projectpolicy.CanDeleteProject(r) {
		respond.Forbidden(w, "")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err := txn.WithTransaction(ctx, h.DB.Client(), h.Log, func(tc context.Context) error {
		if err := h.Projects.Delete(tc, p.TenantID, p.ID); err != nil {
			return err
		}
		_, err := h.Tasks.DeleteByProject(tc, p.TenantID, p.ID)
		return err
	})
	if errors.Is(err, projectstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		h.Log.Error("projects: delete", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}
