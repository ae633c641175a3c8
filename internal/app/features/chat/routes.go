package chat

import (
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the chat endpoints under /api/v1/chat. Every workspace
// role chats; participant checks happen per conversation.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee))

	r.Get("/", h.ServeConversations)
	r.Post("/", h.HandleStartConversation)
	r.Get("/{id}", h.ServeConversation)
	r.Get("/{id}/messages", h.ServeMessages)
	r.Post("/{id}/messages", h.HandleSendMessage)
	r.Post("/{id}/read", h.HandleMarkRead)

	return r
}
