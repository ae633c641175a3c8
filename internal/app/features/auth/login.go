package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is sent by the SPA's role-specific login screens. When present
	// it must match the account; legacy aliases are accepted.
	Role string `json:"role,omitempty"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// HandleLogin verifies credentials and issues a bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		respond.Err(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, userstore.ErrNotFound) || (err == nil && !sysauth.CheckPassword(u.PasswordHash, req.Password)) {
		respond.Unauthorized(w, "Invalid credentials")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}

	if req.Role != "" {
		if role, ok := models.NormalizeRole(req.Role); !ok || role != u.Role {
			respond.Unauthorized(w, "Invalid credentials")
			return
		}
	}

	switch u.Status {
	case models.UserStatusActive:
	case models.UserStatusPending:
		respond.Forbidden(w, "Your join request is awaiting approval")
		return
	default:
		respond.Forbidden(w, "Account is not active")
		return
	}

	token, err := h.Tokens.Issue(u, time.Now())
	if err != nil {
		h.Log.Error("login: issue token", zap.Error(err))
		respond.Internal(w)
		return
	}

	h.Limiter.ResetEmail(req.Email)
	respond.JSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}
