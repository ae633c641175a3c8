package billing

import (
	"errors"
	"net/http"

	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeCatalog returns purchasable plans. Public: the landing page's
// pricing section reads this.
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	plans, err := h.Plans.ListActive(ctx)
	if err != nil {
		h.Log.Error("billing: plan catalog", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, plans)
}

// ServeAllPlans returns every plan, inactive included.
func (h *Handler) ServeAllPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	plans, err := h.Plans.ListAll(ctx)
	if err != nil {
		h.Log.Error("billing: list plans", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, plans)
}

type planRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PriceCents   int64    `json:"price_cents"`
	Currency     string   `json:"currency"`
	UserLimit    int      `json:"user_limit"`
	DurationDays int      `json:"duration_days"`
	Features     []string `json:"features"`
	Active       bool     `json:"active"`
}

func (req planRequest) validate(w http.ResponseWriter) bool {
	switch {
	case req.Name == "":
		respond.BadRequest(w, "Plan name is required")
	case req.PriceCents < 0:
		respond.BadRequest(w, "Price cannot be negative")
	case req.UserLimit < 1:
		respond.BadRequest(w, "User limit must be at least 1")
	case req.DurationDays < 1:
		respond.BadRequest(w, "Duration must be at least 1 day")
	default:
		return true
	}
	return false
}

// HandleCreatePlan adds a plan to the catalog.
func (h *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !req.validate(w) {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	plan, err := h.Plans.Create(ctx, models.Plan{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		UserLimit:    req.UserLimit,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		Active:       req.Active,
	})
	if errors.Is(err, planstore.ErrDuplicateName) {
		respond.Conflict(w, "A plan with this name already exists")
		return
	}
	if err != nil {
		h.Log.Error("billing: create plan", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, plan)
}

// HandleUpdatePlan replaces a plan's editable fields. Workspaces already
// on the plan keep their current term; the new limits apply from their
// next seat check.
func (h *Handler) HandleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid plan id")
		return
	}

	var req planRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !req.validate(w) {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err = h.Plans.Update(ctx, id, planstore.Update{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		UserLimit:    req.UserLimit,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		Active:       req.Active,
	})
	switch err {
	case nil:
	case planstore.ErrNotFound:
		respond.NotFound(w, "")
		return
	case planstore.ErrDuplicateName:
		respond.Conflict(w, "A plan with this name already exists")
		return
	default:
		h.Log.Error("billing: update plan", zap.Error(err))
		respond.Internal(w)
		return
	}

	plan, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, plan)
}

// HandleDeletePlan removes a plan from the catalog.
func (h *Handler) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid plan id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Plans.Delete(ctx, id); err != nil {
		if errors.Is(err, planstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		h.Log.Error("billing: delete plan", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
