package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/dintask/internal/app/policy/leadpolicy"
	"github.com/dalemusser/dintask/internal/app/realtime"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/txn"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type approveRequest struct {
	Manager string `json:"manager_id"`
}

// HandleApproveLead converts a pending Won lead into a project. The lead
// flip, the project insert, and the sales rep's notification commit
// together where the deployment supports transactions.
func (h *Handler) HandleApproveLead(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	if !leadpolicy.CanApproveProject(r) {
		respond.Forbidden(w, "")
		return
	}

	leadID, ok := parseID(chi.URLParam(r, "leadID"))
	if !ok {
		respond.BadRequest(w, "Invalid lead id")
		return
	}

	var req approveRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	manager, ok := parseID(req.Manager)
	if !ok {
		respond.BadRequest(w, "Invalid manager id")
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
	if lead.ApprovalStatus != models.ApprovalPending {
		respond.BadRequest(w, "Lead is not awaiting project approval")
		return
	}

	var (
		project models.Project
		note    models.Notification
	)
	err = txn.WithTransaction(ctx, h.DB.Client(), h.Log, func(tc context.Context) error {
		var err error
		project, err = h.Projects.Create(tc, models.Project{
			TenantID:    cur.TenantID,
			Name:        lead.Name,
			Description: lead.Notes,
			Client:      lead.ID,
			Manager:     manager,
			SalesRep:    lead.SalesRep,
			BudgetCents: lead.AmountCents,
			Deadline:    lead.Deadline,
		})
		if err != nil {
			return err
		}
		if err := h.Leads.Approve(tc, cur.TenantID, lead.ID, project.ID); err != nil {
			return err
		}
		note, err = h.Notifications.Create(tc, models.Notification{
			TenantID:  cur.TenantID,
			Recipient: lead.SalesRep,
			Kind:      "lead_approved",
			Title:     "Project approved",
			Body:      "Your lead " + lead.Name + " was approved as a project.",
			RefID:     &project.ID,
			RefKind:   "project",
		})
		return err
	})
	if errors.Is(err, leadstore.ErrNotFound) {
		// Someone else decided the lead between our read and the write.
		respond.Conflict(w, "Lead is no longer awaiting approval")
		return
	}
	if err != nil {
		h.Log.Error("projects: approve lead", zap.Error(err))
		respond.Internal(w)
		return
	}

	if h.Hub != nil {
		h.Hub.ToUser(lead.SalesRep.Hex(), realtime.NewEvent(realtime.EventNotification, "", note))
	}
	respond.JSON(w, http.StatusCreated, project)
}

// HandleRejectLead declines a pending conversion, returning the lead to
// the unapproved state so its terms can be reworked.
func (h *Handler) HandleRejectLead(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	if !leadpolicy.CanApproveProject(r) {
		respond.Forbidden(w, "")
		return
	}

	leadID, ok := parseID(chi.URLParam(r, "leadID"))
	if !ok {
		respond.BadRequest(w, "Invalid lead id")
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

	if err := h.Leads.RejectApproval(ctx, cur.TenantID, leadID); err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			respond.BadRequest(w, "Lead is not awaiting project approval")
			return
		}
		respond.Internal(w)
		return
	}

	h.notify(ctx, models.Notification{
		TenantID:  cur.TenantID,
		Recipient: lead.SalesRep,
		Kind:      "lead_rejected",
		Title:     "Project request declined",
		Body:      "The project request for " + lead.Name + " was declined.",
		RefID:     &lead.ID,
		RefKind:   "lead",
	})
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Approval rejected"})
}
