// Package teams implements the /api/v1/teams endpoints. Admin and
// managers run teams; members can see the teams they belong to.
package teams

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	teamstore "github.com/dalemusser/dintask/internal/app/store/teams"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Teams.
type Handler struct {
	DB    *mongo.Database
	Teams *teamstore.Store
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a Teams handler bound to its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Teams: teamstore.New(db),
		Users: userstore.New(db),
		Log:   logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
