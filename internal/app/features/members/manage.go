package members

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/inputval"
	"github.com/dalemusser/dintask/internal/app/system/limits"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type addRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleAdd creates an active member directly. The seat check and the
// insert run through limits.GrantSeat so concurrent adds cannot both
// squeeze into the last seat.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req addRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	role, ok := models.NormalizeRole(req.Role)
	if !ok || !models.IsMemberRole(role) {
		respond.BadRequest(w, "Role must be manager, sales, or employee")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.BadRequest(w, "A valid email is required")
		return
	}

	hash, err := sysauth.HashPassword(req.Password)
	if err != nil {
		respond.BadRequest(w, "Password must be between 8 and 72 characters")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	var u models.User
	err = h.Limits.GrantSeat(ctx, h.DB.Client(), h.Log, h.Users, cur.TenantID, 1, func(tc context.Context) error {
		var err error
		u, err = h.Users.Create(tc, models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			Role:         role,
			Status:       models.UserStatusActive,
			PasswordHash: hash,
			TenantID:     &cur.TenantID,
		})
		return err
	})
	switch {
	case errors.Is(err, limits.ErrSeatLimit):
		respond.Forbidden(w, seatLimitMessage)
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Conflict(w, "Email already registered")
	case err != nil:
		h.Log.Error("members: add", zap.Error(err))
		respond.Internal(w)
	default:
		respond.JSON(w, http.StatusCreated, u)
	}
}

// HandleApprove activates a pending join request. The pending document
// already occupies a counted seat, so the grant needs no extra seat; the
// transactional re-check still rejects workspaces left over their limit
// by a plan downgrade.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	member, err := h.Users.GetMember(ctx, cur.TenantID, id)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if member.Status != models.UserStatusPending {
		respond.BadRequest(w, "Member is not awaiting approval")
		return
	}

	err = h.Limits.GrantSeat(ctx, h.DB.Client(), h.Log, h.Users, cur.TenantID, 0, func(tc context.Context) error {
		return h.Users.SetMemberStatus(tc, cur.TenantID, id, models.UserStatusActive)
	})
	switch {
	case errors.Is(err, limits.ErrSeatLimit):
		respond.Forbidden(w, seatLimitMessage)
	case err != nil:
		h.Log.Error("members: approve", zap.Error(err))
		respond.Internal(w)
	default:
		respond.JSON(w, http.StatusOK, map[string]string{"message": "Member approved"})
	}
}

// HandleReject declines a pending join request. The rejected document
// stays for the audit trail but cannot sign in.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Users.SetMemberStatus(ctx, cur.TenantID, id, models.UserStatusRejected); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Member rejected"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus enables or disables a member.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	var req statusRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusInactive {
		respond.BadRequest(w, "Status must be active or inactive")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	// Re-activating a disabled member takes a seat again, so that path
	// goes through the transactional grant.
	if req.Status == models.UserStatusActive {
		err = h.Limits.GrantSeat(ctx, h.DB.Client(), h.Log, h.Users, cur.TenantID, 1, func(tc context.Context) error {
			return h.Users.SetMemberStatus(tc, cur.TenantID, id, req.Status)
		})
	} else {
		err = h.Users.SetMemberStatus(ctx, cur.TenantID, id, req.Status)
	}
	switch {
	case errors.Is(err, limits.ErrSeatLimit):
		respond.Forbidden(w, seatLimitMessage)
	case errors.Is(err, userstore.ErrNotFound):
		respond.NotFound(w, "")
	case err != nil:
		respond.Internal(w)
	default:
		respond.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
	}
}

// HandleDelete removes a member and drops them from every team.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid member id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Users.DeleteMember(ctx, cur.TenantID, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	if err := h.Teams.RemoveMemberEverywhere(ctx, cur.TenantID, id); err != nil {
		h.Log.Warn("members: remove from teams", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}
