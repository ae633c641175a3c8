// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is one in-app notification line for a single recipient.
type Notification struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Kind      string             `bson:"kind" json:"kind"` // e.g. "lead_approved", "task_assigned"
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`

	// Optional reference to the document the notification is about.
	RefID   *primitive.ObjectID `bson:"ref_id,omitempty" json:"ref_id,omitempty"`
	RefKind string              `bson:"ref_kind,omitempty" json:"ref_kind,omitempty"`

	Read   bool       `bson:"read" json:"read"`
	ReadAt *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
