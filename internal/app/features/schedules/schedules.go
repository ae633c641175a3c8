package schedules

import (
	"errors"
	"net/http"
	"time"

	schedulestore "github.com/dalemusser/dintask/internal/app/store/schedules"
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

// ServeList returns calendar entries. Members see their own calendar;
// admin and managers can pass member= to read anyone's, or omit it for
// the whole workspace.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	f := schedulestore.Filter{}
	switch cur.Role {
	case models.RoleAdmin, models.RoleManager:
		if m := query.Get(r, "member"); m != "" {
			id, err := primitive.ObjectIDFromHex(m)
			if err != nil {
				respond.BadRequest(w, "Invalid member id")
				return
			}
			f.Member = &id
		}
	default:
		f.Member = &cur.UserID
	}
	if v := query.Get(r, "from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.BadRequest(w, "from must be RFC 3339")
			return
		}
		f.From = &ts
	}
	if v := query.Get(r, "to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.BadRequest(w, "to must be RFC 3339")
			return
		}
		f.To = &ts
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	entries, total, err := h.Schedules.List(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("schedules: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, entries, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeView returns one calendar entry. Members can read only their own.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid schedule id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	e, err := h.Schedules.Get(ctx, cur.TenantID, id)
	if errors.Is(err, schedulestore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if cur.Role != models.RoleAdmin && cur.Role != models.RoleManager && e.MemberID != cur.UserID {
		respond.NotFound(w, "")
		return
	}
	respond.JSON(w, http.StatusOK, e)
}

type scheduleRequest struct {
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
	MemberID string    `json:"member_id"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
}

// HandleCreate adds a calendar entry for a member. Overlapping an
// existing entry for the same member is a conflict.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req scheduleRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Title == "" {
		respond.BadRequest(w, "Title is required")
		return
	}
	member, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if _, err := h.Users.GetMember(ctx, cur.TenantID, member); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.BadRequest(w, "Member not found in this workspace")
			return
		}
		respond.Internal(w)
		return
	}

	e, err := h.Schedules.Create(ctx, models.Schedule{
		TenantID:  cur.TenantID,
		Title:     req.Title,
		Location:  req.Location,
		Notes:     req.Notes,
		MemberID:  member,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		CreatedBy: cur.UserID,
	})
	switch {
	case errors.Is(err, schedulestore.ErrBadRange):
		respond.BadRequest(w, "End must be after start")
		return
	case errors.Is(err, schedulestore.ErrOverlap):
		respond.Conflict(w, "The member already has an entry in that window")
		return
	case err != nil:
		h.Log.Error("schedules: create", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, e)
}

// HandleUpdate edits a calendar entry, re-checking overlap against
// everything except the entry itself.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid schedule id")
		return
	}

	var req scheduleRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Title == "" {
		respond.BadRequest(w, "Title is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err = h.Schedules.Update(ctx, cur.TenantID, id, schedulestore.Update{
		Title:    req.Title,
		Location: req.Location,
		Notes:    req.Notes,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
	})
	switch {
	case errors.Is(err, schedulestore.ErrNotFound):
		respond.NotFound(w, "")
		return
	case errors.Is(err, schedulestore.ErrBadRange):
		respond.BadRequest(w, "End must be after start")
		return
	case errors.Is(err, schedulestore.ErrOverlap):
		respond.Conflict(w, "The member already has an entry in that window")
		return
	case err != nil:
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Schedule updated"})
}

// HandleDelete removes a calendar entry.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid schedule id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Schedules.Delete(ctx, cur.TenantID, id); err != nil {
		if errors.Is(err, schedulestore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted"})
}
