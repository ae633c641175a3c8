// Package projects implements the /api/v1/projects endpoints: project
// CRUD, the admin side of lead-to-project conversion, and the task
// cascade on delete and on-hold.
package projects

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/dintask/internal/app/realtime"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	notificationstore "github.com/dalemusser/dintask/internal/app/store/notifications"
	projectstore "github.com/dalemusser/dintask/internal/app/store/projects"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Projects.
type Handler struct {
	DB            *mongo.Database
	Projects      *projectstore.Store
	Tasks         *taskstore.Store
	Leads         *leadstore.Store
	Notifications *notificationstore.Store
	Hub           *realtime.Hub
	Log           *zap.Logger
}

// NewHandler constructs a Projects handler bound to its stores. hub may
// be nil in tests; notifications then stay in the database only.
func NewHandler(db *mongo.Database, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Projects:      projectstore.New(db),
		Tasks:         taskstore.New(db),
		Leads:         leadstore.New(db),
		Notifications: notificationstore.New(db),
		Hub:           hub,
		Log:           logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}

// notify writes an in-app notification and pushes it over the socket
// when the recipient is connected.
func (h *Handler) notify(ctx context.Context, n models.Notification) {
	created, err := h.Notifications.Create(ctx, n)
	if err != nil {
		h.Log.Warn("projects: notify", zap.Error(err))
		return
	}
	if h.Hub != nil {
		h.Hub.ToUser(n.Recipient.Hex(), realtime.NewEvent(realtime.EventNotification, "", created))
	}
}

func parseID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	return id, err == nil
}
