// internal/domain/models/conversation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant identifies one side of a conversation. Role is kept alongside
// the id because the original data model referenced users polymorphically
// across role collections; here it doubles as display metadata.
type Participant struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role   string             `bson:"role" json:"role"`
}

// Conversation is a direct or group chat between workspace members.
type Conversation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Participants []Participant `bson:"participants" json:"participants"`
	IsGroup      bool          `bson:"is_group" json:"is_group"`
	Name         string        `bson:"name,omitempty" json:"name,omitempty"` // group chats only

	LastMessage   string     `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageAt *time.Time `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether uid takes part in the conversation.
func (c Conversation) HasParticipant(uid primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p.UserID == uid {
			return true
		}
	}
	return false
}

// Message is one chat message inside a conversation.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID       primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`

	Sender     primitive.ObjectID   `bson:"sender" json:"sender"`
	SenderRole string               `bson:"sender_role" json:"sender_role"`
	Body       string               `bson:"body" json:"body"`
	ReadBy     []primitive.ObjectID `bson:"read_by,omitempty" json:"read_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
