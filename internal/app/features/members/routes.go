package members

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member endpoints under /api/v1/members.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Roster reads for admin and managers.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	// Membership changes are admin-only.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleAdd)
		pr.Get("/pending", h.ServePending)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
		pr.Put("/{id}/status", h.HandleSetStatus)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
