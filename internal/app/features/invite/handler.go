// Package invite implements the /api/v1/invite endpoints: emailed
// uuid-token invitations that create active members on acceptance.
// Seat limits are enforced when the invite is sent and again when it
// is accepted.
package invite

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	invitestore "github.com/dalemusser/dintask/internal/app/store/invites"
	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/limits"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Invites.
type Handler struct {
	DB       *mongo.Database
	Invites  *invitestore.Store
	Users    *userstore.Store
	Limits   limits.Checker
	Mail     *mailer.Mailer
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs an Invite handler bound to its stores.
func NewHandler(db *mongo.Database, mail *mailer.Mailer, siteName, baseURL string, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	return &Handler{
		DB:      db,
		Invites: invitestore.New(db),
		Users:   users,
		Limits: limits.Checker{
			Plans: planstore.New(db),
			Users: users,
		},
		Mail:     mail,
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}

// seatAvailable is the send-time check. It creates no member, so it
// stays a plain read; accept re-checks inside the transactional grant.
func (h *Handler) seatAvailable(ctx context.Context, w http.ResponseWriter, admin models.User) bool {
	dec, err := h.Limits.CheckUserLimit(ctx, admin)
	if err != nil {
		h.Log.Error("seat check", zap.Error(err))
		respond.Internal(w)
		return false
	}
	if !dec.Allowed {
		respond.Forbidden(w, "Workspace has reached its plan's user limit")
		return false
	}
	return true
}
