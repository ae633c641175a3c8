package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is bearer-token authenticated, not cookie authenticated, so
	// cross-origin upgrades carry no ambient credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades an authenticated request to a socket and runs the
// read loop. Mounted behind the auth middleware at /api/v1/ws.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	c := newClient(cur.UserID.Hex(), cur.Role, conn)
	h.register(c)
	go c.writePump()
	h.readPump(c)
}

// readPump processes inbound client events until the socket dies.
func (h *Hub) readPump(c *Client) {
	defer h.unregister(c)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			continue
		}
		h.dispatch(c, ev)
	}
}

// dispatch routes one client event. Join events move the client between
// rooms; typing indicators are relayed to the room without persistence.
func (h *Hub) dispatch(c *Client, ev Event) {
	ev.From = c.userID

	switch ev.Type {
	case EventSetup:
		// Connection bookkeeping happened at register time.
	case EventJoinChat:
		h.Join(c, ChatRoom(ev.Room))
	case EventJoinTicket:
		h.Join(c, TicketRoom(ev.Room))
	case EventLeaveTicket:
		h.Leave(c, TicketRoom(ev.Room))
	case EventTyping, EventStopTyping:
		h.ToRoom(ChatRoom(ev.Room), ev, c)
	case EventSupportTyping, EventSupportStopTyping:
		h.ToRoom(TicketRoom(ev.Room), ev, c)
	}
}
