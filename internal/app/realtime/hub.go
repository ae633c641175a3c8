// Package realtime is the WebSocket hub behind chat and support. Clients
// connect once, join rooms keyed by conversation or ticket id, and the
// REST handlers fan events out to rooms after persisting writes.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// mailboxTTL bounds how long events wait in Redis for an offline user.
const mailboxTTL = 7 * 24 * time.Hour

// Hub tracks connected clients and room membership. A user may hold
// several connections (one per device); events to a user reach all of
// them. When Redis is configured, events addressed to an offline user are
// queued and replayed on the next connect.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // user id -> connections
	rooms   map[string]map[*Client]struct{} // room key -> connections

	rdb *redis.Client // optional offline mailbox
	log *zap.Logger
}

func NewHub(rdb *redis.Client, log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		rdb:     rdb,
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("realtime client connected", zap.String("user_id", c.userID))
	h.deliverMailbox(c)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if conns := h.clients[c.userID]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	c.close()
	h.log.Debug("realtime client disconnected", zap.String("user_id", c.userID))
}

// Join adds the client to a room.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	h.mu.Unlock()
}

// Leave removes the client from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	if members := h.rooms[room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// Online reports whether the user has at least one live connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ToRoom sends the event to every member of the room. The sender, when in
// the room, is skipped so clients do not echo their own typing.
func (h *Hub) ToRoom(room string, ev Event, skip *Client) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal realtime event", zap.Error(err))
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != skip {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(payload)
	}
}

// ToUser sends the event to every connection the user holds. Offline
// users get the event queued in Redis when a mailbox is configured.
func (h *Hub) ToUser(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal realtime event", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		h.queueOffline(userID, payload)
		return
	}
	for _, c := range conns {
		c.enqueue(payload)
	}
}

// ToUsers fans an event out to several users.
func (h *Hub) ToUsers(userIDs []string, ev Event) {
	for _, id := range userIDs {
		h.ToUser(id, ev)
	}
}

func mailboxKey(userID string) string { return "realtime:mailbox:" + userID }

func (h *Hub) queueOffline(userID string, payload []byte) {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := mailboxKey(userID)
	if err := h.rdb.LPush(ctx, key, payload).Err(); err != nil {
		h.log.Warn("queue offline event", zap.String("user_id", userID), zap.Error(err))
		return
	}
	h.rdb.Expire(ctx, key, mailboxTTL)
}

// deliverMailbox replays queued events to a freshly connected client,
// oldest first.
func (h *Hub) deliverMailbox(c *Client) {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := mailboxKey(c.userID)
	for {
		payload, err := h.rdb.RPop(ctx, key).Result()
		if err == redis.Nil {
			return
		}
		if err != nil {
			h.log.Warn("drain offline mailbox", zap.String("user_id", c.userID), zap.Error(err))
			return
		}
		c.enqueue([]byte(payload))
	}
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	all := make([]*Client, 0)
	for _, conns := range h.clients {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
	h.rooms = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		c.close()
	}
}
