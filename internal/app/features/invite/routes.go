package invite

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the invite endpoints under /api/v1/invite.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Accepting needs no account yet.
	r.Get("/{token}", h.ServePreview)
	r.Post("/accept", h.HandleAccept)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleSend)
		pr.Get("/", h.ServePending)
		pr.Delete("/{id}", h.HandleRevoke)
	})

	return r
}
