package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeConn struct{ closed bool }

func (f *fakeConn) ReadMessage() (int, []byte, error) { select {} }
func (f *fakeConn) WriteMessage(int, []byte) error    { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) Close() error                      { f.closed = true; return nil }

func newTestClient(h *Hub, userID string) *Client {
	c := newClient(userID, "employee", &fakeConn{})
	h.register(c)
	return c
}

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Event{}
	}
}

func TestRoomBroadcastSkipsSender(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	alice := newTestClient(h, "alice")
	bob := newTestClient(h, "bob")
	carol := newTestClient(h, "carol")

	room := ChatRoom("conv1")
	h.Join(alice, room)
	h.Join(bob, room)
	// carol never joins.

	h.ToRoom(room, NewEvent(EventNewMessage, "conv1", map[string]string{"body": "hi"}), alice)

	ev := recv(t, bob)
	if ev.Type != EventNewMessage || ev.Room != "conv1" {
		t.Errorf("bob got %+v", ev)
	}

	select {
	case <-alice.send:
		t.Error("sender received own broadcast")
	case <-carol.send:
		t.Error("non-member received broadcast")
	default:
	}
}

func TestToUserReachesEveryConnection(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	phone := newTestClient(h, "alice")
	laptop := newTestClient(h, "alice")

	if !h.Online("alice") {
		t.Fatal("alice not online")
	}

	h.ToUser("alice", NewEvent(EventNotification, "", map[string]string{"title": "ping"}))
	if ev := recv(t, phone); ev.Type != EventNotification {
		t.Errorf("phone got %+v", ev)
	}
	if ev := recv(t, laptop); ev.Type != EventNotification {
		t.Errorf("laptop got %+v", ev)
	}
}

func TestUnregisterLeavesRooms(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	alice := newTestClient(h, "alice")
	bob := newTestClient(h, "bob")

	room := TicketRoom("t1")
	h.Join(alice, room)
	h.Join(bob, room)

	h.unregister(alice)
	if h.Online("alice") {
		t.Error("alice still online after unregister")
	}

	h.ToRoom(room, NewEvent(EventNewSupportResponse, "t1", nil), nil)
	if ev := recv(t, bob); ev.Type != EventNewSupportResponse {
		t.Errorf("bob got %+v", ev)
	}
	select {
	case <-alice.send:
		t.Error("unregistered client received broadcast")
	default:
	}
}

func TestDispatchJoinAndTyping(t *testing.T) {
	h := NewHub(nil, zap.NewNop())
	alice := newTestClient(h, "alice")
	bob := newTestClient(h, "bob")

	h.dispatch(alice, Event{Type: EventJoinChat, Room: "conv9"})
	h.dispatch(bob, Event{Type: EventJoinChat, Room: "conv9"})

	h.dispatch(alice, Event{Type: EventTyping, Room: "conv9"})
	ev := recv(t, bob)
	if ev.Type != EventTyping || ev.From != "alice" {
		t.Errorf("bob got %+v", ev)
	}
}
