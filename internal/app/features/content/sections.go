package content

import (
	"errors"
	"net/http"

	contentstore "github.com/dalemusser/dintask/internal/app/store/content"
	"github.com/dalemusser/dintask/internal/app/system/htmlsanitize"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeLandingPage returns the visible sections in display order. This is
// what the public landing page renders.
func (h *Handler) ServeLandingPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	sections, err := h.Content.ListSections(ctx, true)
	if err != nil {
		h.Log.Error("content: landing page", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, sections)
}

// ServeAllSections returns every section, hidden ones included.
func (h *Handler) ServeAllSections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	sections, err := h.Content.ListSections(ctx, false)
	if err != nil {
		h.Log.Error("content: list sections", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, sections)
}

type sectionRequest struct {
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
	Order    int    `json:"order"`
	Visible  bool   `json:"visible"`
}

// HandleUpsertSection creates or replaces the section at {key}. The body
// HTML is sanitized before storage; whatever survives the policy is what
// the landing page serves.
func (h *Handler) HandleUpsertSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		respond.BadRequest(w, "Section key is required")
		return
	}

	var req sectionRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Title == "" {
		respond.BadRequest(w, "Section title is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	sec, err := h.Content.UpsertSection(ctx, models.LandingSection{
		Key:      key,
		Title:    req.Title,
		BodyHTML: htmlsanitize.Sanitize(req.BodyHTML),
		Order:    req.Order,
		Visible:  req.Visible,
	})
	if err != nil {
		h.Log.Error("content: upsert section", zap.Error(err), zap.String("key", key))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, sec)
}

// HandleDeleteSection removes the section at {key}.
func (h *Handler) HandleDeleteSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Content.DeleteSection(ctx, key); err != nil {
		if errors.Is(err, contentstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		h.Log.Error("content: delete section", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
