// Package content serves the public landing page blocks and testimonials
// and lets superadmins edit them.
package content

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	contentstore "github.com/dalemusser/dintask/internal/app/store/content"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for landing page content.
type Handler struct {
	DB      *mongo.Database
	Content *contentstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Content: contentstore.New(db),
		Log:     logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
