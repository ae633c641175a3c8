// Package support implements /api/v1/support-tickets (tenant tickets and
// the escalated superadmin queue), plus /api/v1/support, the public
// landing-page contact form. Ticket activity is mirrored to websocket
// ticket rooms.
package support

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/dintask/internal/app/realtime"
	supportleadstore "github.com/dalemusser/dintask/internal/app/store/supportleads"
	ticketstore "github.com/dalemusser/dintask/internal/app/store/tickets"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Support.
type Handler struct {
	DB      *mongo.Database
	Tickets *ticketstore.Store
	Inbox   *supportleadstore.Store
	Hub     *realtime.Hub
	Log     *zap.Logger
}

// NewHandler constructs a Support handler bound to its stores. hub may
// be nil in tests.
func NewHandler(db *mongo.Database, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Tickets: ticketstore.New(db),
		Inbox:   supportleadstore.New(db),
		Hub:     hub,
		Log:     logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
