package notifications

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification endpoints under /api/v1/notifications.
// Any signed-in user reads their own feed; there is nothing role-shaped
// here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/unread-count", h.ServeUnreadCount)
	r.Post("/{id}/read", h.HandleMarkRead)
	r.Post("/read-all", h.HandleMarkAllRead)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
