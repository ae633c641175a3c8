package content

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// LandingRoutes mounts the public landing page content at
// /api/v1/landing-page, with superadmin section management underneath.
func LandingRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLandingPage)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleSuperAdmin))
		pr.Get("/sections", h.ServeAllSections)
		pr.Put("/sections/{key}", h.HandleUpsertSection)
		pr.Delete("/sections/{key}", h.HandleDeleteSection)
	})

	return r
}

// TestimonialRoutes mounts /api/v1/testimonials: public reads, superadmin
// writes.
func TestimonialRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeTestimonials)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleSuperAdmin))
		pr.Get("/all", h.ServeAllTestimonials)
		pr.Post("/", h.HandleCreateTestimonial)
		pr.Put("/{id}", h.HandleUpdateTestimonial)
		pr.Delete("/{id}", h.HandleDeleteTestimonial)
	})

	return r
}
