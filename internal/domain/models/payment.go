// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment lifecycle. A payment is created pending alongside the gateway
// order; the gateway webhook (or an explicit confirm call) moves it to paid,
// which is when the workspace subscription is extended.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment records one checkout attempt by a workspace admin.
type Payment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`
	PlanID   primitive.ObjectID `bson:"plan_id" json:"plan_id"`
	PlanName string             `bson:"plan_name" json:"plan_name"`

	AmountCents int64  `bson:"amount_cents" json:"amount_cents"`
	Currency    string `bson:"currency" json:"currency"`

	// Gateway bookkeeping.
	Provider     string `bson:"provider" json:"provider"` // e.g. "stripe"
	OrderID      string `bson:"order_id" json:"order_id"` // gateway intent/order id
	ClientSecret string `bson:"client_secret,omitempty" json:"-"`
	Receipt      string `bson:"receipt" json:"receipt"` // internal receipt number

	Status string     `bson:"status" json:"status"`
	PaidAt *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
