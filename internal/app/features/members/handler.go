// Package members implements the /api/v1/members endpoints: the member
// roster, join-request approval, direct adds, and disables. Seat limits
// are enforced on every path that creates or activates a member.
package members

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	teamstore "github.com/dalemusser/dintask/internal/app/store/teams"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/limits"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// seatLimitMessage is the 403 body the SPA keys off to show the upgrade
// prompt.
const seatLimitMessage = "Workspace has reached its plan's user limit"

// Handler is the feature-level entry point for Members.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	Teams  *teamstore.Store
	Limits limits.Checker
	Log    *zap.Logger
}

// NewHandler constructs a Members handler bound to its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	return &Handler{
		DB:    db,
		Users: users,
		Teams: teamstore.New(db),
		Limits: limits.Checker{
			Plans: planstore.New(db),
			Users: users,
		},
		Log: logger,
	}
}

// shortCtx is the default deadline for member operations.
func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
