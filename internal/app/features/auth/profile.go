package auth

import (
	"context"
	"net/http"
	"strings"

	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMe returns the signed-in user's profile.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, cur.UserID)
	if err != nil {
		respond.NotFound(w, "")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// HandleUpdateProfile updates the caller's own name and phone.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req profileRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respond.BadRequest(w, "Name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, cur.UserID, req.FullName, req.Phone); err != nil {
		h.Log.Error("profile: update", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

type changePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

// HandleChangePassword rotates the caller's password after verifying the
// current one.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req changePasswordRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, cur.UserID)
	if err != nil {
		respond.Internal(w)
		return
	}
	if !sysauth.CheckPassword(u.PasswordHash, req.Current) {
		respond.Unauthorized(w, "Current password is incorrect")
		return
	}

	hash, err := sysauth.HashPassword(req.New)
	if err != nil {
		respond.BadRequest(w, "Password must be between 8 and 72 characters")
		return
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		h.Log.Error("password: update", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

type deviceTokenRequest struct {
	Token string `json:"token"`
}

// HandleAddDeviceToken registers a push notification device token.
func (h *Handler) HandleAddDeviceToken(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req deviceTokenRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		respond.BadRequest(w, "Token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.AddDeviceToken(ctx, cur.UserID, req.Token); err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Device registered"})
}
