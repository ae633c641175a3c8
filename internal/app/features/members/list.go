package members

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// ServeList returns the workspace roster with optional role, status, and
// search filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	f := userstore.MemberFilter{
		Role:   query.Get(r, "role"),
		Status: query.Get(r, "status"),
		Search: query.Get(r, "search"),
	}
	p := paging.Parse(r)

	users, total, err := h.Users.ListMembers(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("members: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, users, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServePending returns pending join requests, oldest first.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	users, err := h.Users.ListPendingMembers(ctx, cur.TenantID)
	if err != nil {
		h.Log.Error("members: pending", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// ServeView returns one member of the caller's workspace.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	u, err := h.Users.GetMember(ctx, cur.TenantID, id)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
