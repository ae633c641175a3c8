package billing

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the billing endpoints under /api/v1/payments. The plan
// catalog and the gateway webhook are public; checkout and history
// belong to workspace admins; the catalog is managed by superadmins.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/plans", h.ServeCatalog)
	r.Post("/webhook", h.HandleWebhook)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleSuperAdmin))
		pr.Get("/plans/all", h.ServeAllPlans)
		pr.Post("/plans", h.HandleCreatePlan)
		pr.Put("/plans/{id}", h.HandleUpdatePlan)
		pr.Delete("/plans/{id}", h.HandleDeletePlan)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/checkout", h.HandleCheckout)
		pr.Get("/", h.ServeHistory)
		pr.Get("/{id}", h.ServePayment)
		pr.Post("/{id}/confirm", h.HandleConfirm)
		pr.Get("/{id}/invoice", h.ServeInvoice)
	})

	return r
}
