// Package notifications implements the /api/v1/notifications endpoints.
// Notifications are written by the other features; this one only reads
// and acknowledges them.
package notifications

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/dalemusser/dintask/internal/app/store/notifications"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler is the feature-level entry point for Notifications.
type Handler struct {
	DB            *mongo.Database
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

// NewHandler constructs a Notifications handler bound to its store.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}

// ServeList returns the caller's notifications, newest first. Pass
// unread=true to hide acknowledged ones.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}
	unreadOnly, _ := strconv.ParseBool(query.Get(r, "unread"))
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	notes, total, err := h.Notifications.ListForUser(ctx, cur.UserID, unreadOnly, p)
	if err != nil {
		h.Log.Error("notifications: list", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, notes, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeUnreadCount returns the badge number.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	n, err := h.Notifications.CountUnread(ctx, cur.UserID)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"unread": n})
}

// HandleMarkRead acknowledges one notification.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid notification id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, cur.UserID, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Marked read"})
}

// HandleMarkAllRead acknowledges everything at once.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, cur.UserID)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"marked": n})
}

// HandleDelete removes one notification from the caller's list.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid notification id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Notifications.Delete(ctx, cur.UserID, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
