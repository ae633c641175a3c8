// Package crm implements the /api/v1/crm and /api/v1/follow-ups
// endpoints: the lead pipeline, follow-up touches, and the sales side of
// lead-to-project conversion. Visibility follows leadpolicy: sales reps
// work their own leads, admin and managers work the workspace's.
package crm

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for the CRM.
type Handler struct {
	DB    *mongo.Database
	Leads *leadstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a CRM handler bound to its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Leads: leadstore.New(db),
		Log:   logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
