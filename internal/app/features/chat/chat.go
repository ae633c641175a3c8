package chat

import (
	"errors"
	"net/http"

	"github.com/dalemusser/dintask/internal/app/realtime"
	conversationstore "github.com/dalemusser/dintask/internal/app/store/conversations"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeConversations returns the caller's conversations, most recently
// active first.
func (h *Handler) ServeConversations(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	convs, total, err := h.Conversations.ListForUser(ctx, cur.TenantID, cur.UserID, p)
	if err != nil {
		h.Log.Error("chat: list conversations", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, convs, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

type startRequest struct {
	// Participants are workspace member ids, excluding the caller.
	Participants []string `json:"participants"`
	IsGroup      bool     `json:"is_group"`
	Name         string   `json:"name"`
}

// HandleStartConversation opens a chat. A direct chat with someone you
// already have one with returns the existing conversation instead of a
// duplicate.
func (h *Handler) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req startRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if len(req.Participants) == 0 {
		respond.BadRequest(w, "A conversation needs at least one other participant")
		return
	}
	if !req.IsGroup && len(req.Participants) != 1 {
		respond.BadRequest(w, "A direct chat has exactly one other participant")
		return
	}
	if req.IsGroup && req.Name == "" {
		respond.BadRequest(w, "Group chats need a name")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	participants := []models.Participant{{UserID: cur.UserID, Role: cur.Role}}
	for _, raw := range req.Participants {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "Invalid participant id")
			return
		}
		if id == cur.UserID {
			continue
		}
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			respond.BadRequest(w, "Participants must be workspace members")
			return
		}
		if ws, ok := u.WorkspaceID(); !ok || ws != cur.TenantID {
			respond.BadRequest(w, "Participants must be workspace members")
			return
		}
		participants = append(participants, models.Participant{UserID: u.ID, Role: u.Role})
	}
	if len(participants) < 2 {
		respond.BadRequest(w, "A conversation needs at least one other participant")
		return
	}

	conv, err := h.Conversations.Create(ctx, models.Conversation{
		TenantID:     cur.TenantID,
		Participants: participants,
		IsGroup:      req.IsGroup,
		Name:         req.Name,
	})
	if err != nil {
		h.Log.Error("chat: start conversation", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusCreated, conv)
}

// loadConversation fetches {id} and verifies the caller takes part.
func (h *Handler) loadConversation(w http.ResponseWriter, r *http.Request) (models.Conversation, gates.Result, bool) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return models.Conversation{}, cur, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid conversation id")
		return models.Conversation{}, cur, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	conv, err := h.Conversations.Get(ctx, cur.TenantID, id)
	if errors.Is(err, conversationstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.Conversation{}, cur, false
	}
	if err != nil {
		respond.Internal(w)
		return models.Conversation{}, cur, false
	}
	if !conv.HasParticipant(cur.UserID) {
		respond.NotFound(w, "")
		return models.Conversation{}, cur, false
	}
	return conv, cur, true
}

// ServeConversation returns one conversation with its unread count.
func (h *Handler) ServeConversation(w http.ResponseWriter, r *http.Request) {
	conv, cur, ok := h.loadConversation(w, r)
	if !ok {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	unread, err := h.Conversations.CountUnread(ctx, conv.TenantID, conv.ID, cur.UserID)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"conversation": conv,
		"unread":       unread,
	})
}

// ServeMessages returns the conversation's messages, newest first.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	conv, _, ok := h.loadConversation(w, r)
	if !ok {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	msgs, total, err := h.Conversations.Messages(ctx, conv.TenantID, conv.ID, p)
	if err != nil {
		h.Log.Error("chat: messages", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, msgs, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

type sendRequest struct {
	Body string `json:"body"`
}

// HandleSendMessage persists a message, then fans new_message out to the
// conversation room and message_received to each participant's personal
// stream (queued for anyone offline).
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	conv, cur, ok := h.loadConversation(w, r)
	if !ok {
		return
	}

	var req sendRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Body == "" {
		respond.BadRequest(w, "Message body is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	msg, err := h.Conversations.AddMessage(ctx, models.Message{
		TenantID:       conv.TenantID,
		ConversationID: conv.ID,
		Sender:         cur.UserID,
		SenderRole:     cur.Role,
		Body:           req.Body,
	})
	if errors.Is(err, conversationstore.ErrNotParticipant) {
		respond.Forbidden(w, "")
		return
	}
	if err != nil {
		h.Log.Error("chat: send", zap.Error(err))
		respond.Internal(w)
		return
	}

	if h.Hub != nil {
		room := realtime.ChatRoom(conv.ID.Hex())
		h.Hub.ToRoom(room, realtime.NewEvent(realtime.EventNewMessage, room, msg), nil)
		for _, p := range conv.Participants {
			if p.UserID == cur.UserID {
				continue
			}
			h.Hub.ToUser(p.UserID.Hex(), realtime.NewEvent(realtime.EventMessageReceived, room, msg))
		}
	}
	respond.JSON(w, http.StatusCreated, msg)
}

// HandleMarkRead marks every message in the conversation read for the
// caller.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	conv, cur, ok := h.loadConversation(w, r)
	if !ok {
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	n, err := h.Conversations.MarkMessagesRead(ctx, conv.TenantID, conv.ID, cur.UserID)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"marked": n})
}
