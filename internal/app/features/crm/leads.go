package crm

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/policy/leadpolicy"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList returns the caller's slice of the pipeline: everything for
// admin and managers, own leads for sales reps.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	scope := leadpolicy.CanListLeads(r)
	if !scope.CanList {
		respond.Forbidden(w, "")
		return
	}

	f := leadstore.Filter{
		Status: query.Get(r, "status"),
		Search: query.Get(r, "search"),
	}
	if f.Status != "" && !models.ValidLeadStatus(f.Status) {
		respond.BadRequest(w, "Unknown lead status")
		return
	}
	if scope.OwnOnly {
		f.SalesRep = &scope.UserID
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	leads, total, err := h.Leads.List(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("crm: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, leads, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeStats returns lead counts per pipeline status.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	counts, err := h.Leads.CountByStatus(ctx, cur.TenantID)
	if err != nil {
		h.Log.Error("crm: stats", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, counts)
}

// loadLead fetches the lead named by the {id} URL param and checks the
// caller may see it. Writes the error response itself on failure.
func (h *Handler) loadLead(w http.ResponseWriter, r *http.Request) (models.Lead, bool) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return models.Lead{}, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid lead id")
		return models.Lead{}, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	lead, err := h.Leads.Get(ctx, cur.TenantID, id)
	if errors.Is(err, leadstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.Lead{}, false
	}
	if err != nil {
		respond.Internal(w)
		return models.Lead{}, false
	}
	if !leadpolicy.CanViewLead(r, lead) {
		// A rep probing another rep's lead learns nothing.
		respond.NotFound(w, "")
		return models.Lead{}, false
	}
	return lead, true
}

// ServeView returns one lead.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

type leadRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Company     string     `json:"company"`
	Source      string     `json:"source"`
	Notes       string     `json:"notes"`
	AmountCents int64      `json:"amount_cents"`
	Deadline    *time.Time `json:"deadline"`
	SalesRep    string     `json:"sales_rep"`
}

// HandleCreate adds a lead. Sales reps own what they create; admin and
// managers may assign another rep via sales_rep.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req leadRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}

	rep := cur.UserID
	if req.SalesRep != "" && cur.Role != models.RoleSales {
		id, err := primitive.ObjectIDFromHex(req.SalesRep)
		if err != nil {
			respond.BadRequest(w, "Invalid sales_rep id")
			return
		}
		rep = id
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	lead, err := h.Leads.Create(ctx, models.Lead{
		TenantID:    cur.TenantID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Source:      req.Source,
		Notes:       req.Notes,
		AmountCents: req.AmountCents,
		Deadline:    req.Deadline,
		SalesRep:    rep,
	})
	if err != nil {
		h.Log.Error("crm: create", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, lead)
}

// HandleUpdate edits a lead's contact and deal fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	if !leadpolicy.CanManageLead(r, lead) {
		respond.Forbidden(w, "")
		return
	}

	var req leadRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" {
		respond.BadRequest(w, "Name is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err := h.Leads.Update(ctx, lead.TenantID, lead.ID, leadstore.Update{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Source:      req.Source,
		Notes:       req.Notes,
		AmountCents: req.AmountCents,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.Log.Error("crm: update", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Lead updated"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus moves a lead along the pipeline.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	if !leadpolicy.CanManageLead(r, lead) {
		respond.Forbidden(w, "")
		return
	}

	var req statusRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !models.ValidLeadStatus(req.Status) {
		respond.BadRequest(w, "Unknown lead status")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Leads.SetStatus(ctx, lead.TenantID, lead.ID, req.Status); err != nil {
		h.Log.Error("crm: set status", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// HandleDelete removes a lead from the pipeline.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.loadLead(w, r)
	if !ok {
		return
	}
	if !leadpolicy.CanManageLead(r, lead) {
		respond.Forbidden(w, "")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Leads.Delete(ctx, lead.TenantID, lead.ID); err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Lead deleted"})
}
