// Package chat implements the /api/v1/chat endpoints. Messages persist
// through REST; delivery fans out over the websocket hub to the
// conversation room, with an offline mailbox for anyone not connected.
package chat

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/dintask/internal/app/realtime"
	conversationstore "github.com/dalemusser/dintask/internal/app/store/conversations"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Chat.
type Handler struct {
	DB            *mongo.Database
	Conversations *conversationstore.Store
	Users         *userstore.Store
	Hub           *realtime.Hub
	Log           *zap.Logger
}

// NewHandler constructs a Chat handler bound to its stores. hub may be
// nil in tests; messages then persist without socket fan-out.
func NewHandler(db *mongo.Database, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Conversations: conversationstore.New(db),
		Users:         userstore.New(db),
		Hub:           hub,
		Log:           logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
