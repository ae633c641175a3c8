package support

import (
	"errors"
	"net/http"
	"strconv"

	supportleadstore "github.com/dalemusser/dintask/internal/app/store/supportleads"
	"github.com/dalemusser/dintask/internal/app/system/inputval"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// HandleContact captures a pre-sales inquiry from the landing page. No
// authentication; superadmins triage the inbox.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Name == "" || req.Message == "" {
		respond.BadRequest(w, "Name and message are required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.BadRequest(w, "A valid email is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	lead, err := h.Inbox.Create(ctx, models.SupportLead{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
	})
	if err != nil {
		h.Log.Error("support: contact", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, lead)
}

// ServeContactLeads lists the inquiry inbox, newest first.
// ?unhandled=true hides leads already followed up on.
func (h *Handler) ServeContactLeads(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	unhandled, _ := strconv.ParseBool(query.Get(r, "unhandled"))

	ctx, cancel := shortCtx(r)
	defer cancel()

	leads, total, err := h.Inbox.List(ctx, unhandled, p)
	if err != nil {
		h.Log.Error("support: list contact leads", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, leads, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// HandleMarkLeadHandled checks an inquiry off the inbox.
func (h *Handler) HandleMarkLeadHandled(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid lead id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Inbox.MarkHandled(ctx, id); err != nil {
		if errors.Is(err, supportleadstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		h.Log.Error("support: mark lead handled", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"handled": true})
}
