package teams

import (
	"errors"
	"net/http"

	teamstore "github.com/dalemusser/dintask/internal/app/store/teams"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList returns the workspace's teams, with optional name search.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	teams, total, err := h.Teams.List(ctx, cur.TenantID, query.Get(r, "search"), p)
	if err != nil {
		h.Log.Error("teams: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, teams, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeMine returns the teams the caller belongs to or manages.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	teams, err := h.Teams.ListForMember(ctx, cur.TenantID, cur.UserID)
	if err != nil {
		h.Log.Error("teams: mine", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, teams)
}

// ServeView returns one team.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid team id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	t, err := h.Teams.Get(ctx, cur.TenantID, id)
	if errors.Is(err, teamstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Manager     string `json:"manager"`
}

// HandleCreate adds a team. The manager must be one of the workspace's
// members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req teamRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}
	manager, err := primitive.ObjectIDFromHex(req.Manager)
	if err != nil {
		respond.BadRequest(w, "Invalid manager id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if _, err := h.Users.GetMember(ctx, cur.TenantID, manager); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.BadRequest(w, "Manager must be a workspace member")
			return
		}
		respond.Internal(w)
		return
	}

	t, err := h.Teams.Create(ctx, models.Team{
		TenantID:    cur.TenantID,
		Name:        req.Name,
		Description: req.Description,
		Manager:     manager,
	})
	switch {
	case errors.Is(err, teamstore.ErrDuplicateName):
		respond.Conflict(w, "A team with that name already exists")
		return
	case err != nil:
		h.Log.Error("teams: create", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

// HandleUpdate edits a team's name, description, and manager.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid team id")
		return
	}

	var req teamRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}
	manager, err := primitive.ObjectIDFromHex(req.Manager)
	if err != nil {
		respond.BadRequest(w, "Invalid manager id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err = h.Teams.Update(ctx, cur.TenantID, id, teamstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Manager:     manager,
	})
	switch {
	case errors.Is(err, teamstore.ErrNotFound):
		respond.NotFound(w, "")
		return
	case errors.Is(err, teamstore.ErrDuplicateName):
		respond.Conflict(w, "A team with that name already exists")
		return
	case err != nil:
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Team updated"})
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddMember puts a workspace member on the team.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid team id")
		return
	}

	var req memberRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respond.BadRequest(w, "Invalid user id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if _, err := h.Users.GetMember(ctx, cur.TenantID, userID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.BadRequest(w, "User is not a workspace member")
			return
		}
		respond.Internal(w)
		return
	}

	if err := h.Teams.AddMember(ctx, cur.TenantID, id, userID); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Member added"})
}

// HandleRemoveMember takes a member off the team.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid team id")
		return
	}
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.BadRequest(w, "Invalid user id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Teams.RemoveMember(ctx, cur.TenantID, id, userID); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// HandleDelete removes a team. Tasks and schedules reference users, not
// teams, so nothing cascades.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid team id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Teams.Delete(ctx, cur.TenantID, id); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Team deleted"})
}
