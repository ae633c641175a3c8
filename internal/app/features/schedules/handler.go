// Package schedules implements the /api/v1/schedules endpoints: calendar
// entries per member with overlap rejection.
package schedules

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	schedulestore "github.com/dalemusser/dintask/internal/app/store/schedules"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Schedules.
type Handler struct {
	DB        *mongo.Database
	Schedules *schedulestore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

// NewHandler constructs a Schedules handler bound to its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Schedules: schedulestore.New(db),
		Users:     userstore.New(db),
		Log:       logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
