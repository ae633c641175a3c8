// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteExpired  = "expired"
	InviteRevoked  = "revoked"
)

// Invite is an emailed invitation to join a workspace in a given role.
// Token is a random uuid embedded in the invite link.
type Invite struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Email string `bson:"email" json:"email"`
	Role  string `bson:"role" json:"role"`
	Token string `bson:"token" json:"-"`

	Status    string             `bson:"status" json:"status"`
	InvitedBy primitive.ObjectID `bson:"invited_by" json:"invited_by"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Usable reports whether the invite can still be accepted at time now.
func (i Invite) Usable(now time.Time) bool {
	return i.Status == InvitePending && now.Before(i.ExpiresAt)
}
