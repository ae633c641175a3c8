package invite

import (
	"errors"
	"net/http"

	invitestore "github.com/dalemusser/dintask/internal/app/store/invites"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/inputval"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sendRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleSend issues an invite and emails its accept link. The seat check
// runs here so an admin cannot hand out links a full workspace cannot
// honor.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req sendRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	role, ok := models.NormalizeRole(req.Role)
	if !ok || !models.IsMemberRole(role) {
		respond.BadRequest(w, "Role must be manager, sales, or employee")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.BadRequest(w, "A valid email is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	admin, err := h.Users.GetByID(ctx, cur.TenantID)
	if err != nil {
		respond.Internal(w)
		return
	}
	if !h.seatAvailable(ctx, w, admin) {
		return
	}

	inv, err := h.Invites.Create(ctx, cur.TenantID, req.Email, role, cur.UserID)
	switch {
	case errors.Is(err, invitestore.ErrDuplicate):
		respond.Conflict(w, "A pending invite for this email already exists")
		return
	case err != nil:
		h.Log.Error("invite: create", zap.Error(err))
		respond.Internal(w)
		return
	}

	e := mailer.BuildInviteEmail(mailer.InviteData{
		SiteName:   h.SiteName,
		AdminName:  admin.FullName,
		Role:       inv.Role,
		AcceptLink: h.BaseURL + "/invite/" + inv.Token,
		ExpiresIn:  "7 days",
	})
	e.To = inv.Email
	h.Mail.SendAsync(e)

	respond.JSON(w, http.StatusCreated, inv)
}

// ServePending lists the workspace's open invites.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	invs, err := h.Invites.ListPending(ctx, cur.TenantID)
	if err != nil {
		h.Log.Error("invite: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, invs)
}

// HandleRevoke cancels a pending invite so its link stops working.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid invite id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Invites.Revoke(ctx, cur.TenantID, id); err != nil {
		if errors.Is(err, invitestore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Invite revoked"})
}
