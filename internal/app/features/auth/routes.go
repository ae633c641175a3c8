package auth

import (
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth endpoints under /api/v1/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public.
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/forgot-password", h.HandleForgotPassword)
	r.Post("/reset-password", h.HandleResetPassword)

	// Signed-in.
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Post("/logout", h.HandleLogout)
		pr.Get("/me", h.ServeMe)
		pr.Put("/profile", h.HandleUpdateProfile)
		pr.Put("/password", h.HandleChangePassword)
		pr.Post("/device-tokens", h.HandleAddDeviceToken)
	})

	return r
}
