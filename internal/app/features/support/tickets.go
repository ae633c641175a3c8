package support

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/dintask/internal/app/policy/ticketpolicy"
	"github.com/dalemusser/dintask/internal/app/realtime"
	ticketstore "github.com/dalemusser/dintask/internal/app/store/tickets"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func validTicketStatus(s string) bool {
	switch s {
	case models.TicketOpen, models.TicketInProgress, models.TicketResolved, models.TicketClosed:
		return true
	}
	return false
}

type raiseRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// HandleRaise opens a ticket. Member tickets land with the workspace
// admin; admin tickets escalate to the platform superadmins.
func (h *Handler) HandleRaise(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req raiseRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Subject == "" || req.Body == "" {
		respond.BadRequest(w, "Subject and body are required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	t, err := h.Tickets.Create(ctx, models.SupportTicket{
		TenantID:   cur.TenantID,
		Subject:    req.Subject,
		Body:       req.Body,
		Category:   req.Category,
		Priority:   req.Priority,
		RaisedBy:   cur.UserID,
		RaisedRole: cur.Role,
	})
	if err != nil {
		h.Log.Error("support: raise ticket", zap.Error(err))
		respond.Internal(w)
		return
	}

	if h.Hub != nil {
		room := realtime.TicketRoom(t.ID.Hex())
		h.Hub.ToRoom(room, realtime.NewEvent(realtime.EventNewSupportTicket, room, t), nil)
		if !t.Escalated {
			// The workspace admin's user id doubles as the tenant id.
			h.Hub.ToUser(cur.TenantID.Hex(), realtime.NewEvent(realtime.EventNewSupportTicket, room, t))
		}
	}
	respond.JSON(w, http.StatusCreated, t)
}

// ServeList returns the caller's view of the tenant queue: admins see
// every non-escalated ticket, everyone else only their own. ?mine=true
// restricts an admin to the tickets they raised, escalated included.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	p := paging.Parse(r)

	f := ticketstore.Filter{Search: query.Get(r, "q")}
	if status := query.Get(r, "status"); status != "" {
		if !validTicketStatus(status) {
			respond.BadRequest(w, "Unknown ticket status")
			return
		}
		f.Status = status
	}
	mine, _ := strconv.ParseBool(query.Get(r, "mine"))
	if cur.Role != models.RoleAdmin || mine {
		f.RaisedBy = &cur.UserID
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	tickets, total, err := h.Tickets.List(ctx, cur.TenantID, f, p)
	if err != nil {
		h.Log.Error("support: list tickets", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, tickets, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServeEscalated returns the platform-wide escalated queue.
func (h *Handler) ServeEscalated(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	status := query.Get(r, "status")
	if status != "" && !validTicketStatus(status) {
		respond.BadRequest(w, "Unknown ticket status")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	tickets, total, err := h.Tickets.ListEscalated(ctx, status, p)
	if err != nil {
		h.Log.Error("support: list escalated", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, tickets, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// loadTicket fetches {id} for the caller. Superadmins reach only the
// escalated pool; everyone else is tenant-scoped. Denied reads look like
// missing tickets.
func (h *Handler) loadTicket(w http.ResponseWriter, r *http.Request) (models.SupportTicket, gates.Result, bool) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return models.SupportTicket{}, cur, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid ticket id")
		return models.SupportTicket{}, cur, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	var t models.SupportTicket
	if cur.Role == models.RoleSuperAdmin {
		t, err = h.Tickets.GetEscalated(ctx, id)
	} else {
		if cur.TenantID.IsZero() {
			respond.Forbidden(w, "No workspace for this account")
			return models.SupportTicket{}, cur, false
		}
		t, err = h.Tickets.Get(ctx, cur.TenantID, id)
	}
	if errors.Is(err, ticketstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.SupportTicket{}, cur, false
	}
	if err != nil {
		respond.Internal(w)
		return models.SupportTicket{}, cur, false
	}
	if !ticketpolicy.CanViewTicket(r, t) {
		respond.NotFound(w, "")
		return models.SupportTicket{}, cur, false
	}
	return t, cur, true
}

// ServeView returns one ticket with its response thread.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.loadTicket(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

type respondRequest struct {
	Body string `json:"body"`
}

// HandleRespond appends a reply to the thread and mirrors it to the
// ticket room. The raiser also gets a personal push when someone else
// replies.
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	t, cur, ok := h.loadTicket(w, r)
	if !ok {
		return
	}
	if !ticketpolicy.CanRespond(r, t) {
		respond.Forbidden(w, "")
		return
	}

	var req respondRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if req.Body == "" {
		respond.BadRequest(w, "Response body is required")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	resp, err := h.Tickets.AddResponse(ctx, t.ID, models.TicketResponse{
		AuthorID:   cur.UserID,
		AuthorRole: cur.Role,
		Body:       req.Body,
	})
	if errors.Is(err, ticketstore.ErrNotFound) {
		respond.NotFound(w, "")
		return
	}
	if err != nil {
		h.Log.Error("support: respond", zap.Error(err))
		respond.Internal(w)
		return
	}

	if h.Hub != nil {
		room := realtime.TicketRoom(t.ID.Hex())
		h.Hub.ToRoom(room, realtime.NewEvent(realtime.EventNewSupportResponse, room, resp), nil)
		if t.RaisedBy != cur.UserID {
			h.Hub.ToUser(t.RaisedBy.Hex(), realtime.NewEvent(realtime.EventNewSupportResponse, room, resp))
		}
	}
	respond.JSON(w, http.StatusCreated, resp)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus moves a ticket between statuses. Only the handling
// side (workspace admin, or superadmin for escalated tickets) can.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.loadTicket(w, r)
	if !ok {
		return
	}
	if !ticketpolicy.CanSetStatus(r, t) {
		respond.Forbidden(w, "")
		return
	}

	var req statusRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !validTicketStatus(req.Status) {
		respond.BadRequest(w, "Unknown ticket status")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Tickets.SetStatus(ctx, t.ID, req.Status); err != nil {
		if errors.Is(err, ticketstore.ErrNotFound) {
			respond.NotFound(w, "")
			return
		}
		h.Log.Error("support: set status", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
