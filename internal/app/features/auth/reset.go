package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resetTTL is how long a reset link stays valid.
const resetTTL = time.Hour

type forgotRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword issues a reset token and emails the reset link.
// The response never reveals whether the address exists.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	token := uuid.NewString()
	u, err := h.Users.SetResetToken(ctx, req.Email, token, time.Now().Add(resetTTL))
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		// Fall through to the generic response.
	case err != nil:
		h.Log.Error("forgot-password: set token", zap.Error(err))
		respond.Internal(w)
		return
	default:
		e := mailer.BuildResetEmail(mailer.ResetData{
			SiteName:  h.SiteName,
			UserName:  u.FullName,
			ResetLink: h.BaseURL + "/reset-password?token=" + token,
			ExpiresIn: "1 hour",
		})
		e.To = u.Email
		h.Mail.SendAsync(e)
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "If that address is registered, a reset link is on its way",
	})
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleResetPassword consumes a reset token and sets the new password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Token == "" {
		respond.BadRequest(w, "Reset token is required")
		return
	}

	hash, err := sysauth.HashPassword(req.Password)
	if err != nil {
		respond.BadRequest(w, "Password must be between 8 and 72 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByResetToken(ctx, req.Token, time.Now())
	if errors.Is(err, userstore.ErrNotFound) {
		respond.BadRequest(w, "Reset link is invalid or has expired")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}

	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		h.Log.Error("reset-password: update", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
