package crm

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the lead endpoints under /api/v1/crm. Employees have no
// CRM access; finer scoping happens in leadpolicy.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales))

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/stats", h.ServeStats)
	r.Get("/approvals", h.ServePendingApprovals)
	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdate)
	r.Put("/{id}/status", h.HandleSetStatus)
	r.Post("/{id}/request-approval", h.HandleRequestApproval)
	r.Delete("/{id}", h.HandleDelete)

	return r
}

// FollowUpRoutes mounts the follow-up endpoints under /api/v1/follow-ups.
func FollowUpRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales))

	r.Post("/", h.HandleAddFollowUp)
	r.Post("/{leadID}/{id}/complete", h.HandleCompleteFollowUp)

	return r
}
