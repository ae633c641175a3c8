// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member account statuses. A member created through the join-request flow
// starts as pending and only becomes active once the workspace admin
// approves it. Disabled members keep their documents but cannot sign in.
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusRejected = "rejected"
)

// Subscription statuses carried on admin (tenant root) documents.
const (
	SubscriptionActive  = "active"
	SubscriptionTrial   = "trial"
	SubscriptionExpired = "expired"
)

// User represents every account in DinTask: superadmins, workspace admins,
// and workspace members (managers, sales reps, employees).
//
// NOTE:
//   - TenantID is set only on member roles and points at the owning admin's
//     ID. Admins are their own tenant root; the tenant id of an admin's
//     workspace is the admin's own _id.
//   - Subscription fields are meaningful only on admin documents.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       string             `bson:"role" json:"role"`
	Status     string             `bson:"status" json:"status"`

	PasswordHash string `bson:"password_hash" json:"-"`

	// Workspace scoping (member roles only).
	TenantID *primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`

	// Subscription state (admin documents only).
	PlanID             *primitive.ObjectID `bson:"plan_id,omitempty" json:"plan_id,omitempty"`
	PlanName           string              `bson:"plan_name,omitempty" json:"plan_name,omitempty"`
	SubscriptionStatus string              `bson:"subscription_status,omitempty" json:"subscription_status,omitempty"`
	SubscriptionExpiry *time.Time          `bson:"subscription_expiry,omitempty" json:"subscription_expiry,omitempty"`

	// Password reset.
	ResetToken       string     `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpiry *time.Time `bson:"reset_token_expiry,omitempty" json:"-"`

	// Push notification device tokens registered by the SPA. Stored only;
	// delivery is handled by the client-facing push service.
	DeviceTokens []string `bson:"device_tokens,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WorkspaceID returns the tenant id this user belongs to: an admin's own id,
// or a member's stored tenant_id. Superadmins have no workspace and return
// (NilObjectID, false).
func (u User) WorkspaceID() (primitive.ObjectID, bool) {
	switch {
	case u.Role == RoleAdmin:
		return u.ID, true
	case IsMemberRole(u.Role) && u.TenantID != nil:
		return *u.TenantID, true
	}
	return primitive.NilObjectID, false
}

// SubscriptionExpired reports whether the admin's subscription lapsed
// before now. Admins with no expiry set are treated as unexpired.
func (u User) SubscriptionExpired(now time.Time) bool {
	return u.SubscriptionExpiry != nil && u.SubscriptionExpiry.Before(now)
}
