package content

import (
	"errors"
	"net/http"

	contentstore "github.com/dalemusser/dintask/internal/app/store/content"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeTestimonials returns visible testimonials for the landing page.
func (h *Handler) ServeTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	list, err := h.Content.ListTestimonials(ctx, true)
	if err != nil {
		h.Log.Error("content: testimonials", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ServeAllTestimonials returns every testimonial for the console.
func (h *Handler) ServeAllTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	list, err := h.Content.ListTestimonials(ctx, false)
	if err != nil {
		h.Log.Error("content: list testimonials", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

type testimonialRequest struct {
	Author  string `json:"author"`
	Company string `json:"company"`
	Quote   string `json:"quote"`
	Rating  int    `json:"rating"`
	Visible bool   `json:"visible"`
}

func (req testimonialRequest) validate(w http.ResponseWriter) bool {
	switch {
	case req.Author == "":
		respond.BadRequest(w, "Author is required")
	case req.Quote == "":
		respond.BadRequest(w, "Quote is required")
	case req.Rating < 1 || req.Rating > 5:
		respond.BadRequest(w, "Rating must be between 1 and 5")
	default:
		return true
	}
	return false
}

// HandleCreateTestimonial adds a customer quote.
func (h *Handler) HandleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !req.validate(w) {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	tst, err := h.Content.CreateTestimonial(ctx, models.Testimonial{
		Author:  req.Author,
		Company: req.Company,
		Quote:   req.Quote,
		Rating:  req.Rating,
		Visible: req.Visible,
	})
	if err != nil {
		h.Log.Error("content: create testimonial", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, tst)
}

// HandleUpdateTestimonial replaces the editable fields of {id}.
func (h *Handler) HandleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid testimonial id")
		return
	}

	var req testimonialRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !req.validate(w) {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	err = h.Content.UpdateTestimonial(ctx, id, models.Testimonial{
		Author:  req.Author,
		Company: req.Company,
		Quote:   req.Quote,
		Rating:  req.Rating,
		Visible: req.Visible,
	})
	if errors.Is(err, contentstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		h.Log.Error("content: update testimonial", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// HandleDeleteTestimonial removes {id}.
func (h *Handler) HandleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid testimonial id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Content.DeleteTestimonial(ctx, id); err != nil {
		if errors.Is(err, contentstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		h.Log.Error("content: delete testimonial", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
