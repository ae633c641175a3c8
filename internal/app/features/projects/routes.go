package projects

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the project endpoints under /api/v1/projects.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads for every workspace role; projectpolicy narrows per project.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee))
		pr.Get("/", h.ServeList)
		pr.Get("/stats", h.ServeStats)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
		pr.Put("/{id}", h.HandleUpdate)
		pr.Put("/{id}/status", h.HandleSetStatus)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Post("/approve/{leadID}", h.HandleApproveLead)
		pr.Post("/reject/{leadID}", h.HandleRejectLead)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
