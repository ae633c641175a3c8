package superadmin

import (
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.uber.org/zap"
)

// workspaceSummary is one row of the console's workspace table.
type workspaceSummary struct {
	models.User
	Members int64 `json:"members"`
	Expired bool  `json:"expired"`
}

// ServeWorkspaces returns a page of workspace admins with their seat
// usage and subscription state.
func (h *Handler) ServeWorkspaces(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	admins, total, err := h.Users.ListAdmins(ctx, p)
	if err != nil {
		h.Log.Error("superadmin: list workspaces", zap.Error(err))
		respond.Internal(w)
		return
	}

	now := time.Now()
	out := make([]workspaceSummary, 0, len(admins))
	for _, admin := range admins {
		n, err := h.Users.CountMembers(ctx, admin.ID)
		if err != nil {
			h.Log.Error("superadmin: count members", zap.Error(err),
				zap.String("workspace", admin.ID.Hex()))
			respond.Internal(w)
			return
		}
		out = append(out, workspaceSummary{
			User:    admin,
			Members: n,
			Expired: admin.SubscriptionExpired(now),
		})
	}
	respond.List(w, out, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// platformStats is the console's headline dashboard.
type platformStats struct {
	UsersByRole        map[string]int64 `json:"users_by_role"`
	TotalRevenueCents  int64            `json:"total_revenue_cents"`
	OpenEscalatedCount int64            `json:"open_escalated_tickets"`
}

// ServeStats returns platform-wide counters.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := shortCtx(r)
	defer cancel()

	byRole, err := h.Users.CountByRole(ctx)
	if err != nil {
		h.Log.Error("superadmin: count by role", zap.Error(err))
		respond.Internal(w)
		return
	}
	revenue, err := h.Payments.TotalPaidCents(ctx)
	if err != nil {
		h.Log.Error("superadmin: revenue", zap.Error(err))
		respond.Internal(w)
		return
	}
	escalated, err := h.Tickets.CountOpenEscalated(ctx)
	if err != nil {
		h.Log.Error("superadmin: escalated count", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusOK, platformStats{
		UsersByRole:        byRole,
		TotalRevenueCents:  revenue,
		OpenEscalatedCount: escalated,
	})
}
