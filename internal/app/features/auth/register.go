package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	sysauth "github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/inputval"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// AdminEmail names the workspace a member wants to join. Member
	// registrations land as pending join requests.
	AdminEmail string `json:"admin_email,omitempty"`
}

// HandleRegister creates an account. Admins sign up directly and become
// their own tenant root; member roles register a join request against an
// existing workspace and stay pending until the admin approves.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}

	role, ok := models.NormalizeRole(req.Role)
	if !ok || role == models.RoleSuperAdmin {
		respond.BadRequest(w, "Unknown role")
		return
	}
	if strings.TrimSpace(req.FullName) == "" || normalize.Email(req.Email) == "" {
		respond.BadRequest(w, "Name and email are required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.BadRequest(w, "Invalid email address")
		return
	}
	if req.Phone != "" && !inputval.IsValidPhone(req.Phone) {
		respond.BadRequest(w, "Invalid phone number")
		return
	}

	hash, err := sysauth.HashPassword(req.Password)
	if err != nil {
		respond.BadRequest(w, "Password must be between 8 and 72 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hash,
	}

	switch {
	case role == models.RoleAdmin:
		u.Status = models.UserStatusActive
		u.SubscriptionStatus = models.SubscriptionTrial
	default:
		admin, err := h.Users.GetByEmail(ctx, req.AdminEmail)
		if err != nil || admin.Role != models.RoleAdmin {
			respond.BadRequest(w, "Workspace not found")
			return
		}
		u.Status = models.UserStatusPending
		u.TenantID = &admin.ID
	}

	created, err := h.Users.Create(ctx, u)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Conflict(w, "Email already registered")
		return
	case err != nil:
		h.Log.Error("register: create user", zap.Error(err))
		respond.Internal(w)
		return
	}

	if created.Status == models.UserStatusPending && created.TenantID != nil {
		h.notifyJoinRequest(ctx, created)
	}

	respond.JSON(w, http.StatusCreated, created)
}

// notifyJoinRequest emails the workspace admin about a new pending member.
func (h *Handler) notifyJoinRequest(ctx context.Context, member models.User) {
	admin, err := h.Users.GetByID(ctx, *member.TenantID)
	if err != nil {
		h.Log.Warn("register: load admin for join-request email", zap.Error(err))
		return
	}
	e := mailer.BuildJoinRequestEmail(mailer.JoinRequestData{
		SiteName:    h.SiteName,
		AdminName:   admin.FullName,
		MemberName:  member.FullName,
		MemberEmail: member.Email,
		Role:        member.Role,
		ReviewLink:  h.BaseURL + "/members/pending",
	})
	e.To = admin.Email
	h.Mail.SendAsync(e)
}
