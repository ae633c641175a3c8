package crm

import (
	"errors"
	"net/http"

	"github.com/dalemusser/dintask/internal/app/policy/leadpolicy"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"go.uber.org/zap"
)

// HandleRequestApproval flags a Won lead for conversion into a project.
// The store enforces the preconditions atomically: status Won, positive
// amount, deadline set. Failing any one returns 400 with nothing changed.
func (h *Handler) HandleRequestApproval(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	if !leadpolicy.CanRequestApproval(r, lead) {
		respond.Forbidden(w, "")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err := h.Leads.RequestApproval(ctx, lead.TenantID, lead.ID)
	switch {
	case errors.Is(err, leadstore.ErrNotApprovable):
		respond.BadRequest(w, "Lead must be Won with an amount and deadline before requesting approval")
		return
	case errors.Is(err, leadstore.ErrNotFound):
		respond.NotFound(w, "")
		return
	case err != nil:
		h.Log.Error("crm: request approval", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Project approval requested"})
}

// ServePendingApprovals lists leads awaiting the admin's decision.
func (h *Handler) ServePendingApprovals(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	if !leadpolicy.CanApproveProject(r) {
		respond.Forbidden(w, "")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	leads, err := h.Leads.ListPendingApproval(ctx, cur.TenantID)
	if err != nil {
		h.Log.Error("crm: pending approvals", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, leads)
}
