package tasks

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the task endpoints under /api/v1/tasks.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee))
		pr.Get("/", h.ServeList)
		pr.Get("/stats", h.ServeStats)
		pr.Get("/{id}", h.ServeView)
		pr.Put("/{id}/subtask", h.HandleUpdateSubTask)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Put("/{id}/status", h.HandleSetStatus)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
