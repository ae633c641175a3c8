package support

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the ticket endpoints under /api/v1/support-tickets.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee))
		pr.Post("/", h.HandleRaise)
		pr.Get("/", h.ServeList)
	})

	// Ticket reads and replies span workspace users and superadmins;
	// ticketpolicy decides per ticket.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/{id}", h.ServeView)
		pr.Post("/{id}/responses", h.HandleRespond)
		pr.Put("/{id}/status", h.HandleSetStatus)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleSuperAdmin))
		pr.Get("/escalated", h.ServeEscalated)
	})

	return r
}

// PublicRoutes mounts the landing-page contact form at /api/v1/support.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleContact)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleSuperAdmin))
		pr.Get("/leads", h.ServeContactLeads)
		pr.Put("/leads/{id}/handled", h.HandleMarkLeadHandled)
	})

	return r
}
