package invite

import (
	"context"
	"errors"
	"net/http"
	"time"

	invitestore "github.com/dalemusser/dintask/internal/app/store/invites"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/limits"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServePreview returns the invite behind a link token so the accept page
// can show who is being invited and as what.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	ctx, cancel := shortCtx(r)
	defer cancel()

	inv, err := h.Invites.GetByToken(ctx, token)
	if errors.Is(err, invitestore.ErrNotFound) {
		respond.NotFound(w, "Invite not found")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if !inv.Usable(time.Now()) {
		respond.BadRequest(w, "Invite has expired or was already used")
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

type acceptRequest struct {
	Token    string `json:"token"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// HandleAccept consumes an invite token and creates the member. The seat
// check runs again here, transactionally with the consume and the insert:
// seats may have filled since the invite went out, and two raced accepts
// must not both land.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.FullName == "" {
		respond.BadRequest(w, "Name is required")
		return
	}
	hash, err := sysauth.HashPassword(req.Password)
	if err != nil {
		respond.BadRequest(w, "Password must be between 8 and 72 characters")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	now := time.Now()
	inv, err := h.Invites.GetByToken(ctx, req.Token)
	if errors.Is(err, invitestore.ErrNotFound) {
		respond.NotFound(w, "Invite not found")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if !inv.Usable(now) {
		respond.BadRequest(w, "Invite has expired or was already used")
		return
	}

	var u models.User
	err = h.Limits.GrantSeat(ctx, h.DB.Client(), h.Log, h.Users, inv.TenantID, 1, func(tc context.Context) error {
		// Consume before creating the user so a raced second accept
		// loses here rather than on the email unique index.
		inv, err = h.Invites.Accept(tc, req.Token, now)
		if err != nil {
			return err
		}
		u, err = h.Users.Create(tc, models.User{
			FullName:     req.FullName,
			Email:        inv.Email,
			Phone:        req.Phone,
			Role:         inv.Role,
			Status:       models.UserStatusActive,
			PasswordHash: hash,
			TenantID:     &inv.TenantID,
		})
		return err
	})
	switch {
	case errors.Is(err, limits.ErrSeatLimit):
		respond.Forbidden(w, "Workspace has reached its plan's user limit")
	case errors.Is(err, invitestore.ErrNotUsable) || errors.Is(err, invitestore.ErrNotFound):
		respond.BadRequest(w, "Invite has expired or was already used")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Conflict(w, "Email already registered")
	case err != nil:
		h.Log.Error("invite: accept", zap.Error(err))
		respond.Internal(w)
	default:
		respond.JSON(w, http.StatusCreated, u)
	}
}
