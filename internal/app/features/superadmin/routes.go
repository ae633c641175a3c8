package superadmin

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the console under /api/v1/admin. Superadmins only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleSuperAdmin))

	r.Get("/workspaces", h.ServeWorkspaces)
	r.Get("/stats", h.ServeStats)

	return r
}
