// Package tasks implements the /api/v1/tasks endpoints: task CRUD,
// per-assignee subtask progress, and the activity trail. Assignees are
// notified when work lands on them.
package tasks

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/dintask/internal/app/realtime"
	notificationstore "github.com/dalemusser/dintask/internal/app/store/notifications"
	projectstore "github.com/dalemusser/dintask/internal/app/store/projects"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Tasks.
type Handler struct {
	DB            *mongo.Database
	Tasks         *taskstore.Store
	Projects      *projectstore.Store
	Notifications *notificationstore.Store
	Hub           *realtime.Hub
	Log           *zap.Logger
}

// NewHandler constructs a Tasks handler bound to its stores. hub may be
// nil in tests.
func NewHandler(db *mongo.Database, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Tasks:         taskstore.New(db),
		Projects:      projectstore.New(db),
		Notifications: notificationstore.New(db),
		Hub:           hub,
		Log:           logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}

// notifyAssignees fans a task notification out to every assignee except
// the actor.
func (h *Handler) notifyAssignees(ctx context.Context, t models.Task, actor primitive.ObjectID, kind, title string) {
	recipients := make([]primitive.ObjectID, 0, len(t.AssignedTo))
	for _, a := range t.AssignedTo {
		if a != actor {
			recipients = append(recipients, a)
		}
	}
	if len(recipients) == 0 {
		return
	}

	base := models.Notification{
		TenantID: t.TenantID,
		Kind:     kind,
		Title:    title,
		Body:     t.Title,
		RefID:    &t.ID,
		RefKind:  "task",
	}
	if err := h.Notifications.CreateMany(ctx, base, recipients); err != nil {
		h.Log.Warn("tasks: notify assignees", zap.Error(err))
		return
	}
	if h.Hub != nil {
		ids := make([]string, len(recipients))
		for i, r := range recipients {
			ids[i] = r.Hex()
		}
		h.Hub.ToUsers(ids, realtime.NewEvent(realtime.EventNotification, "", base))
	}
}
