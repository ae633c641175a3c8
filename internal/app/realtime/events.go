package realtime

import "encoding/json"

// Event types sent and received over the socket. Clients send the join /
// typing events; the server fans out the new_* and *_received events.
const (
	// Chat.
	EventSetup           = "setup"
	EventJoinChat        = "join_chat"
	EventTyping          = "typing"
	EventStopTyping      = "stop_typing"
	EventNewMessage      = "new_message"
	EventMessageReceived = "message_received"

	// Support.
	EventJoinTicket         = "join_ticket"
	EventLeaveTicket        = "leave_ticket"
	EventSupportTyping      = "support_typing"
	EventSupportStopTyping  = "support_stop_typing"
	EventNewSupportTicket   = "new_support_ticket"
	EventNewSupportResponse = "new_support_response"

	// Notifications pushed to a single user.
	EventNotification = "notification"
)

// Event is the wire frame for every socket message, in both directions.
// Room carries the conversation or ticket id the event concerns.
type Event struct {
	Type string          `json:"type"`
	Room string          `json:"room,omitempty"`
	From string          `json:"from,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds a server-side event, marshaling data into the frame.
// A data value that cannot be marshaled is sent as an empty payload.
func NewEvent(typ, room string, data any) Event {
	ev := Event{Type: typ, Room: room}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			ev.Data = b
		}
	}
	return ev
}

// ChatRoom and TicketRoom build the room keys used by the hub.
func ChatRoom(conversationID string) string { return "chat:" + conversationID }
func TicketRoom(ticketID string) string    { return "ticket:" + ticketID }
