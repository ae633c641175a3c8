package crm

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/policy/leadpolicy"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type followUpRequest struct {
	LeadID string    `json:"lead_id"`
	Note   string    `json:"note"`
	DueAt  time.Time `json:"due_at"`
}

// HandleAddFollowUp schedules a follow-up touch on a lead.
func (h *Handler) HandleAddFollowUp(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req followUpRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	leadID, err := primitive.ObjectIDFromHex(req.LeadID)
	if err != nil {
		respond.BadRequest(w, "Invalid lead id")
		return
	}
	if req.Note == "" {
		respond.BadRequest(w, "Note is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	lead, err := h.Leads.Get(ctx, cur.TenantID, leadID)
	if errors.Is(err, leadstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if !leadpolicy.CanManageLead(r, lead) {
		respond.NotFound(w, "")
		return
	}

	fu, err := h.Leads.AddFollowUp(ctx, cur.TenantID, leadID, models.FollowUp{
		Note:    req.Note,
		DueAt:   req.DueAt,
		AddedBy: cur.UserID,
	})
	if err != nil {
		h.Log.Error("crm: add follow-up", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, fu)
}

// HandleCompleteFollowUp marks one follow-up entry done.
func (h *Handler) HandleCompleteFollowUp(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	leadID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "leadID"))
	if err != nil {
		respond.BadRequest(w, "Invalid lead id")
		return
	}
	fuID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid follow-up id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	lead, err := h.Leads.Get(ctx, cur.TenantID, leadID)
	if errors.Is(err, leadstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if !leadpolicy.CanManageLead(r, lead) {
		respond.NotFound(w, "")
		return
	}

	if err := h.Leads.CompleteFollowUp(ctx, cur.TenantID, leadID, fuID); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			respond.NotFound(w, "Follow-up not found")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Follow-up completed"})
}
